package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-physics/internal/physics"
)

// Transform is a node's translation, rotation and scale relative to its parent.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform that leaves children where they are.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// FromXYZ returns an identity transform translated to (x, y, z).
func FromXYZ(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// Matrix returns T * R * S. A zero rotation or scale is treated as identity.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Mesh is triangle geometry shared by every node instanced from the same asset mesh.
// Indices may be empty, in which case Positions is a triangle list.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
}

// Triangles returns the mesh as a list of triangles in mesh space.
func (m *Mesh) Triangles() [][3]mgl32.Vec3 {
	if m == nil {
		return nil
	}
	if len(m.Indices) == 0 {
		out := make([][3]mgl32.Vec3, 0, len(m.Positions)/3)
		for i := 0; i+2 < len(m.Positions); i += 3 {
			out = append(out, [3]mgl32.Vec3{m.Positions[i], m.Positions[i+1], m.Positions[i+2]})
		}
		return out
	}
	out := make([][3]mgl32.Vec3, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(m.Positions) || int(b) >= len(m.Positions) || int(c) >= len(m.Positions) {
			continue
		}
		out = append(out, [3]mgl32.Vec3{m.Positions[a], m.Positions[b], m.Positions[c]})
	}
	return out
}

// Geometry exposes the mesh to the physics world for TrimeshFromMesh colliders.
func (m *Mesh) Geometry() *physics.Geometry {
	if m == nil {
		return nil
	}
	return &physics.Geometry{Vertices: m.Positions, Indices: m.Indices}
}

// Node is an entity in the scene graph. Extras holds the raw JSON mesh extras from the
// asset, empty when the mesh has none. Physics is set once a collider has been resolved.
type Node struct {
	ID        uint64              `copier:"-"`
	Name      string
	Transform Transform
	Mesh      *Mesh
	Extras    string
	Physics   *physics.Descriptor `copier:"-"`
	Parent    *Node               `copier:"-"`
	Children  []*Node             `copier:"-"`
}

// HasExtras reports whether the node carries mesh extras.
func (n *Node) HasExtras() bool {
	return n.Extras != ""
}

// Path returns the slash separated names from the root down to n, for log lines.
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}

// WorldMatrix returns the node's transform composed with every ancestor's.
func WorldMatrix(n *Node) mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// Decompose splits an affine matrix without shear into translation, rotation and scale.
func Decompose(m mgl32.Mat4) Transform {
	scale := mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	rot := mgl32.QuatIdent()
	if scale[0] != 0 && scale[1] != 0 && scale[2] != 0 {
		r := mgl32.Ident4()
		for c := 0; c < 3; c++ {
			r.SetCol(c, m.Col(c).Vec3().Mul(1/scale[c]).Vec4(0))
		}
		rot = mgl32.Mat4ToQuat(r).Normalize()
	}
	return Transform{Translation: m.Col(3).Vec3(), Rotation: rot, Scale: scale}
}

// WorldPose decomposes the world matrix into the pose the physics world expects.
func WorldPose(n *Node) physics.Pose {
	t := Decompose(WorldMatrix(n))
	return physics.Pose{Position: t.Translation, Rotation: t.Rotation, Scale: t.Scale}
}

// SetWorldPosition moves n so its world-space origin lands on p, keeping rotation and scale.
func SetWorldPosition(n *Node, p mgl32.Vec3) {
	if n.Parent == nil {
		n.Transform.Translation = p
		return
	}
	inv := WorldMatrix(n.Parent).Inv()
	n.Transform.Translation = mgl32.TransformCoordinate(p, inv)
}

// Descendants returns every node below root in depth-first pre-order. Root is not included.
func Descendants(root *Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(root)
	return out
}
