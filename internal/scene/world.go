package scene

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
)

// TemplateNode is the asset-side description of a node, before it is instanced.
type TemplateNode struct {
	Name      string
	Transform Transform
	Mesh      *Mesh
	Extras    string
	Children  []*TemplateNode
}

// Template is one scene of an asset: a forest of nodes spawned together.
type Template struct {
	Name  string
	Roots []*TemplateNode
}

// TemplateSource yields a template once it is available. ready is false while the
// asset is still loading; a non-nil err means it never will be.
type TemplateSource interface {
	Template() (tmpl *Template, ready bool, err error)
}

type staticSource struct {
	tmpl *Template
}

func (s staticSource) Template() (*Template, bool, error) {
	if s.tmpl == nil {
		return nil, false, errors.New("scene: nil template")
	}
	return s.tmpl, true, nil
}

// Ready wraps an in-memory template as an already loaded source.
func Ready(t *Template) TemplateSource {
	return staticSource{tmpl: t}
}

// SpawnRequest asks the world to instance Source under a new root placed at Transform.
// OnReady runs once with that root after every node exists. OnError runs instead
// when the source fails to load.
type SpawnRequest struct {
	Source    TemplateSource
	Transform Transform
	OnReady   func(root *Node)
	OnError   func(err error)
}

// World owns every spawned scene instance. It is driven from a single update loop
// and is not safe for concurrent use.
type World struct {
	nextID  uint64
	roots   []*Node
	nodes   map[uint64]*Node
	pending []SpawnRequest
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{nodes: make(map[uint64]*Node)}
}

// Spawn queues a request. Nothing is instanced until the next Update.
func (w *World) Spawn(req SpawnRequest) {
	w.pending = append(w.pending, req)
}

// Pending returns the number of queued requests.
func (w *World) Pending() int {
	return len(w.pending)
}

// Update instances every queued request whose source is ready and fires its OnReady.
// Requests still loading stay queued in order. Requests queued from inside a callback
// are handled on the next Update. Returns the number of instances spawned.
func (w *World) Update() int {
	if len(w.pending) == 0 {
		return 0
	}
	queue := w.pending
	w.pending = nil

	var keep []SpawnRequest
	type ready struct {
		root *Node
		cb   func(*Node)
	}
	var spawned []ready
	for _, req := range queue {
		if req.Source == nil {
			if req.OnError != nil {
				req.OnError(errors.New("scene: spawn without source"))
			}
			continue
		}
		tmpl, ok, err := req.Source.Template()
		if err != nil {
			if req.OnError != nil {
				req.OnError(err)
			}
			continue
		}
		if !ok {
			keep = append(keep, req)
			continue
		}
		root, err := w.instantiate(tmpl, req.Transform)
		if err != nil {
			if req.OnError != nil {
				req.OnError(err)
			}
			continue
		}
		spawned = append(spawned, ready{root: root, cb: req.OnReady})
	}
	// Callbacks may call Spawn; keep those behind the requests that are still loading.
	w.pending = append(keep, w.pending...)

	for _, s := range spawned {
		if s.cb != nil {
			s.cb(s.root)
		}
	}
	return len(spawned)
}

// instantiate builds the whole instance first and indexes it only once every node
// was created, so a failed spawn leaves nothing behind.
func (w *World) instantiate(tmpl *Template, at Transform) (*Node, error) {
	root := w.newNode()
	root.Name = tmpl.Name
	root.Transform = at
	for _, tn := range tmpl.Roots {
		child, err := w.instantiateNode(tn, root)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	w.index(root)
	w.roots = append(w.roots, root)
	return root, nil
}

func (w *World) instantiateNode(tn *TemplateNode, parent *Node) (*Node, error) {
	if tn == nil {
		return nil, fmt.Errorf("scene: nil node under %q", parent.Name)
	}
	n := w.newNode()
	if err := copier.Copy(n, tn); err != nil {
		return nil, fmt.Errorf("scene: instance %q: %w", tn.Name, err)
	}
	n.Parent = parent
	for _, tc := range tn.Children {
		child, err := w.instantiateNode(tc, n)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// newNode allocates an id. The node is not live until index adds it.
func (w *World) newNode() *Node {
	w.nextID++
	return &Node{ID: w.nextID, Transform: IdentityTransform()}
}

func (w *World) index(n *Node) {
	w.nodes[n.ID] = n
	for _, c := range n.Children {
		w.index(c)
	}
}

// forget drops n and its subtree from the id index.
func (w *World) forget(n *Node) {
	delete(w.nodes, n.ID)
	for _, c := range n.Children {
		w.forget(c)
	}
}

// Roots returns the spawned instance roots in spawn order.
func (w *World) Roots() []*Node {
	return w.roots
}

// Node returns the live node with the given id.
func (w *World) Node(id uint64) (*Node, bool) {
	n, ok := w.nodes[id]
	return n, ok
}

// Len returns the number of live nodes, roots included.
func (w *World) Len() int {
	return len(w.nodes)
}

// Despawn removes n and everything below it. Removing the last child of an instance root
// leaves the root in place.
func (w *World) Despawn(n *Node) {
	if _, ok := w.nodes[n.ID]; !ok {
		return
	}
	w.forget(n)
	if n.Parent != nil {
		siblings := n.Parent.Children
		for i, c := range siblings {
			if c == n {
				n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		n.Parent = nil
		return
	}
	for i, r := range w.roots {
		if r == n {
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			break
		}
	}
}
