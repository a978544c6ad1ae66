package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BodyMode says whether the simulation moves a body.
type BodyMode int

const (
	// Static bodies never move and ignore gravity.
	Static BodyMode = iota + 1
	// Dynamic bodies are integrated under gravity and pushed out of contacts.
	Dynamic
)

func (m BodyMode) String() string {
	switch m {
	case Static:
		return "Static"
	case Dynamic:
		return "Dynamic"
	default:
		return fmt.Sprintf("BodyMode(%d)", int(m))
	}
}

// Shape is a collider shape. The set of implementations is closed: Cuboid,
// TrimeshFromMesh and Trimesh.
type Shape interface {
	isShape()
	String() string
}

// Cuboid is a box centered on the body origin. Size holds full side lengths.
type Cuboid struct {
	Size mgl32.Vec3
}

// TrimeshFromMesh is a request: the world builds a Trimesh from the geometry passed to Add.
type TrimeshFromMesh struct{}

// Trimesh is a triangle mesh collider in body-local space.
// Indices may be empty, in which case Vertices is read as a triangle list.
type Trimesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

func (Cuboid) isShape()          {}
func (TrimeshFromMesh) isShape() {}
func (Trimesh) isShape()         {}

func (c Cuboid) String() string {
	return fmt.Sprintf("Cuboid(%g, %g, %g)", c.Size[0], c.Size[1], c.Size[2])
}

func (TrimeshFromMesh) String() string { return "TrimeshFromMesh" }

func (t Trimesh) String() string {
	return fmt.Sprintf("Trimesh(%d triangles)", t.TriangleCount())
}

// TriangleCount returns the number of complete triangles.
func (t Trimesh) TriangleCount() int {
	if len(t.Indices) > 0 {
		return len(t.Indices) / 3
	}
	return len(t.Vertices) / 3
}

// Descriptor is what gets attached to a scene node: how the body moves and what it collides as.
type Descriptor struct {
	Mode  BodyMode
	Shape Shape
}

func (d Descriptor) String() string {
	if d.Shape == nil {
		return d.Mode.String() + " <no shape>"
	}
	return d.Mode.String() + " " + d.Shape.String()
}

// Geometry is the mesh data a TrimeshFromMesh collider is derived from.
type Geometry struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box side lengths.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Overlaps reports whether the two boxes intersect with positive volume.
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] <= o.Min[i] || o.Max[i] <= b.Min[i] {
			return false
		}
	}
	return true
}

// localBounds returns the shape's bounds in body space.
func localBounds(s Shape) (AABB, bool) {
	switch s := s.(type) {
	case Cuboid:
		half := s.Size.Mul(0.5)
		return AABB{Min: half.Mul(-1), Max: half}, true
	case Trimesh:
		if len(s.Vertices) == 0 {
			return AABB{}, false
		}
		box := AABB{Min: s.Vertices[0], Max: s.Vertices[0]}
		for _, v := range s.Vertices[1:] {
			for i := 0; i < 3; i++ {
				box.Min[i] = min(box.Min[i], v[i])
				box.Max[i] = max(box.Max[i], v[i])
			}
		}
		return box, true
	case TrimeshFromMesh:
		return AABB{}, false
	}
	return AABB{}, false
}
