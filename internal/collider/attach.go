package collider

import (
	"errors"

	"scene-physics/internal/extras"
	"scene-physics/internal/logger"
	"scene-physics/internal/scene"
)

// Report counts what one OnSceneReady pass did.
type Report struct {
	Attached int
	Skipped  int
	Failed   int
}

// Attacher resolves colliders for freshly spawned scene instances.
// With strict set, a node missing a required dimension panics instead of being skipped.
type Attacher struct {
	log    *logger.Logger
	strict bool
}

// NewAttacher returns an attacher that logs to log.
func NewAttacher(log *logger.Logger, strict bool) *Attacher {
	return &Attacher{log: log, strict: strict}
}

// OnReady adapts OnSceneReady to scene.SpawnRequest.OnReady.
func (a *Attacher) OnReady(root *scene.Node) {
	a.OnSceneReady(root)
}

// OnSceneReady walks every node below root and sets Physics on those carrying mesh extras.
// Nodes without extras are left alone and counted as skipped.
func (a *Attacher) OnSceneReady(root *scene.Node) Report {
	var r Report
	for _, n := range scene.Descendants(root) {
		if !n.HasExtras() {
			r.Skipped++
			continue
		}
		desc, err := Resolve(n.Extras)
		switch {
		case err == nil:
			n.Physics = &desc
			r.Attached++
		case errors.Is(err, extras.ErrDecode):
			a.log.Errorf("couldn't deserialize extras on %s: %v", n.Path(), err)
			r.Failed++
		case errors.Is(err, ErrMissingDimension):
			a.log.Errorf("broken content on %s: %v", n.Path(), err)
			if a.strict {
				panic(err.Error() + " (node " + n.Path() + ")")
			}
			r.Failed++
		default:
			a.log.Errorf("resolve collider on %s: %v", n.Path(), err)
			r.Failed++
		}
	}
	a.log.Infof("scene %s ready: %d colliders, %d failed", root.Name, r.Attached, r.Failed)
	return r
}
