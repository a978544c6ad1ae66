package physics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoGeometry is returned when a TrimeshFromMesh collider is requested for a node
	// without triangle data.
	ErrNoGeometry = errors.New("physics: trimesh requested without geometry")
	// ErrInvalidShape is returned for shapes the world cannot build a collider from.
	ErrInvalidShape = errors.New("physics: invalid shape")
)

// DefaultGravity points down the Y axis.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

// World holds a set of bodies and runs a simple 3D physics step: gravity, integration, AABB collision.
type World struct {
	Gravity mgl32.Vec3
	bodies  []*Body
	byID    map[uint64]*Body
}

// NewWorld returns an empty physics world with the given gravity.
func NewWorld(gravity mgl32.Vec3) *World {
	return &World{
		Gravity: gravity,
		byID:    make(map[uint64]*Body),
	}
}

// SetGravity sets the gravity vector (e.g. [0, -9.81, 0] for down in -Y).
func (w *World) SetGravity(g mgl32.Vec3) {
	w.Gravity = g
}

// Add builds a body for id from a descriptor. TrimeshFromMesh is resolved here against geom;
// geom is ignored for other shapes. Adding an id that already has a body replaces it.
func (w *World) Add(id uint64, d Descriptor, pose Pose, geom *Geometry) (*Body, error) {
	shape, err := buildShape(d.Shape, geom)
	if err != nil {
		return nil, fmt.Errorf("body %d: %w", id, err)
	}
	switch d.Mode {
	case Static, Dynamic:
	default:
		return nil, fmt.Errorf("body %d: %w: mode %v", id, ErrInvalidShape, d.Mode)
	}
	b := NewBody(id, d.Mode, shape, pose, massFor(shape, pose))
	if _, ok := w.byID[id]; ok {
		w.Remove(id)
	}
	w.bodies = append(w.bodies, b)
	w.byID[id] = b
	return b, nil
}

func buildShape(s Shape, geom *Geometry) (Shape, error) {
	switch s := s.(type) {
	case Cuboid:
		for i := 0; i < 3; i++ {
			if math32.IsNaN(s.Size[i]) || math32.IsInf(s.Size[i], 0) || s.Size[i] < 0 {
				return nil, fmt.Errorf("%w: cuboid size %v", ErrInvalidShape, s.Size)
			}
		}
		return s, nil
	case TrimeshFromMesh:
		if geom == nil || len(geom.Vertices) < 3 {
			return nil, ErrNoGeometry
		}
		mesh := Trimesh{
			Vertices: append([]mgl32.Vec3(nil), geom.Vertices...),
			Indices:  append([]uint32(nil), geom.Indices...),
		}
		if mesh.TriangleCount() == 0 {
			return nil, ErrNoGeometry
		}
		for _, idx := range mesh.Indices {
			if int(idx) >= len(mesh.Vertices) {
				return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidShape, idx)
			}
		}
		return mesh, nil
	case Trimesh:
		if s.TriangleCount() == 0 {
			return nil, ErrNoGeometry
		}
		return s, nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidShape)
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidShape, s)
}

// massFor uses unit density over the scaled bounding volume.
func massFor(s Shape, pose Pose) float32 {
	box, ok := localBounds(s)
	if !ok {
		return 1
	}
	size := box.Size()
	scale := pose.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	vol := math32.Abs(size[0]*scale[0]) * math32.Abs(size[1]*scale[1]) * math32.Abs(size[2]*scale[2])
	if vol < 0.001 {
		return 1
	}
	return vol
}

// Remove deletes the body for id. It reports whether a body was removed.
func (w *World) Remove(id uint64) bool {
	if _, ok := w.byID[id]; !ok {
		return false
	}
	delete(w.byID, id)
	for i, b := range w.bodies {
		if b.ID == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	return true
}

// Body returns the body for id.
func (w *World) Body(id uint64) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// Bodies returns the bodies in insertion order. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// BelowY returns the ids of dynamic bodies whose position is under y, sorted ascending.
func (w *World) BelowY(y float32) []uint64 {
	var out []uint64
	for _, b := range w.bodies {
		if !b.Static() && b.Position[1] < y {
			out = append(out, b.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the minimum penetration.
// If no overlap, returns (0, -1).
func penetrationAxis(a, b AABB) (depth float32, axis int) {
	overlapX := min(a.Max[0], b.Max[0]) - max(a.Min[0], b.Min[0])
	overlapY := min(a.Max[1], b.Max[1]) - max(a.Min[1], b.Min[1])
	overlapZ := min(a.Max[2], b.Max[2]) - max(a.Min[2], b.Min[2])
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	depth = overlapX
	axis = 0
	if overlapY < depth {
		depth = overlapY
		axis = 1
	}
	if overlapZ < depth {
		depth = overlapZ
		axis = 2
	}
	return depth, axis
}

// Step advances the simulation by dt seconds: apply gravity, integrate, then AABB collisions.
// There is no global floor: dynamic bodies fall until they hit another body.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}

	// Resolve overlapping pairs by pushing apart along the minimum penetration axis.
	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		boxI := bi.AABB()
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			if bi.Static() && bj.Static() {
				continue
			}
			boxJ := bj.AABB()
			if !boxI.Overlaps(boxJ) {
				continue
			}
			depth, axis := penetrationAxis(boxI, boxJ)
			if axis < 0 {
				continue
			}
			// Push along the axis from i's center toward j's.
			sign := float32(1)
			if boxJ.Center()[axis] < boxI.Center()[axis] {
				sign = -1
			}
			var moveI, moveJ float32
			switch {
			case bi.Static():
				moveJ = depth
			case bj.Static():
				moveI = -depth
			default:
				total := bi.Mass + bj.Mass
				moveI = -depth * (bj.Mass / total)
				moveJ = depth * (bi.Mass / total)
			}
			bi.Position[axis] += sign * moveI
			bj.Position[axis] += sign * moveJ
			if !bi.Static() {
				bi.Velocity[axis] = 0
			}
			if !bj.Static() {
				bj.Velocity[axis] = 0
			}
			boxI = bi.AABB()
		}
	}
}
