package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/qmuntal/gltf"

	"scene-physics/internal/logger"
	"scene-physics/internal/scene"
)

// State is the load state of a Handle.
type State int

const (
	Loading State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrSceneIndex is returned when a scene label points past the asset's scenes.
var ErrSceneIndex = errors.New("assets: scene index out of range")

// Handle is a shared reference to one asset file. It becomes Loaded or Failed once the
// background load finishes; a reload swaps the templates in place.
type Handle struct {
	path string

	mu        sync.Mutex
	state     State
	templates []*scene.Template
	err       error
	version   int
	done      chan struct{}
}

func newHandle(path string) *Handle {
	return &Handle{path: path, done: make(chan struct{})}
}

// Path returns the path the handle was loaded from.
func (h *Handle) Path() string {
	return h.path
}

// State returns the current load state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the load error once the handle has Failed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Version increments every time new templates are published.
func (h *Handle) Version() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// Wait blocks until the first load finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Templates returns every scene of the asset, or nil while loading.
func (h *Handle) Templates() []*scene.Template {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.templates
}

// Scene returns a source for the asset's scene at index, the equivalent of a
// "path#SceneN" label.
func (h *Handle) Scene(index int) scene.TemplateSource {
	return sceneSource{h: h, index: index}
}

func (h *Handle) publish(templates []*scene.Template, err error) {
	h.mu.Lock()
	first := h.version == 0 && h.state == Loading
	switch {
	case err == nil:
		h.templates = templates
		h.state = Loaded
		h.err = nil
		h.version++
	case h.state == Loaded:
		// Keep serving the previous content when a reload fails.
	default:
		h.state = Failed
		h.err = err
	}
	h.mu.Unlock()
	if first {
		close(h.done)
	}
}

type sceneSource struct {
	h     *Handle
	index int
}

func (s sceneSource) Template() (*scene.Template, bool, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	switch s.h.state {
	case Loading:
		return nil, false, nil
	case Failed:
		return nil, false, s.h.err
	}
	if s.index < 0 || s.index >= len(s.h.templates) {
		return nil, false, fmt.Errorf("%w: %s#Scene%d (asset has %d)", ErrSceneIndex, s.h.path, s.index, len(s.h.templates))
	}
	return s.h.templates[s.index], true, nil
}

// Server loads assets in the background and caches handles by path.
type Server struct {
	log  *logger.Logger
	open func(path string) (*gltf.Document, error)

	mu      sync.Mutex
	handles map[string]*Handle
	watcher *Watcher
	wg      sync.WaitGroup
}

// NewServer returns a server that reads GLB/glTF files from disk.
func NewServer(log *logger.Logger) *Server {
	return &Server{
		log:     log,
		open:    gltf.Open,
		handles: make(map[string]*Handle),
	}
}

// Load returns the handle for path, starting a background load the first time.
func (s *Server) Load(path string) *Handle {
	key := filepath.Clean(path)
	s.mu.Lock()
	if h, ok := s.handles[key]; ok {
		s.mu.Unlock()
		return h
	}
	h := newHandle(key)
	s.handles[key] = h
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.read(h)
	}()
	return h
}

// Reload re-reads an already loaded path. Unknown paths are ignored.
func (s *Server) Reload(path string) {
	s.mu.Lock()
	h, ok := s.handles[filepath.Clean(path)]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.read(h)
}

func (s *Server) read(h *Handle) {
	templates, err := s.readFile(h.path)
	if err != nil {
		s.log.Errorf("load asset %s: %v", h.path, err)
	} else {
		s.log.Infof("loaded asset %s (%d scenes)", h.path, len(templates))
	}
	h.publish(templates, err)
}

func (s *Server) readFile(path string) ([]*scene.Template, error) {
	doc, err := s.open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	templates, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("assets: convert %s: %w", path, err)
	}
	return templates, nil
}

// Paths returns the cached asset paths.
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.handles))
	for p := range s.handles {
		out = append(out, p)
	}
	return out
}

// Close stops watching and waits for in-flight loads.
func (s *Server) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	var err error
	if w != nil {
		err = w.Close()
	}
	s.wg.Wait()
	return err
}
