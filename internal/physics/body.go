package physics

import "github.com/go-gl/mathgl/mgl32"

// Pose places a body in the world. Scale applies to the collider shape.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityPose is a pose at the origin with no rotation and unit scale.
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Body is a 3D rigid body. Its AABB is derived from the collider shape and pose.
// Static bodies do not move and are not affected by gravity.
type Body struct {
	ID       uint64
	Mode     BodyMode
	Shape    Shape
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Velocity mgl32.Vec3
	Mass     float32

	local AABB
}

// NewBody returns a body with zero velocity. mass <= 0 becomes 1.
func NewBody(id uint64, mode BodyMode, shape Shape, pose Pose, mass float32) *Body {
	if mass <= 0 {
		mass = 1
	}
	scale := pose.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	rot := pose.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	local, _ := localBounds(shape)
	return &Body{
		ID:       id,
		Mode:     mode,
		Shape:    shape,
		Position: pose.Position,
		Rotation: rot,
		Scale:    scale,
		Mass:     mass,
		local:    local,
	}
}

// Static reports whether the body is immovable.
func (b *Body) Static() bool {
	return b.Mode != Dynamic
}

// AABB returns the world-space box enclosing the rotated, scaled collider.
func (b *Body) AABB() AABB {
	var out AABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.local.Min[0], b.local.Min[1], b.local.Min[2]}
		if i&1 != 0 {
			corner[0] = b.local.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.local.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.local.Max[2]
		}
		corner = mgl32.Vec3{corner[0] * b.Scale[0], corner[1] * b.Scale[1], corner[2] * b.Scale[2]}
		p := b.Rotation.Rotate(corner).Add(b.Position)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		for k := 0; k < 3; k++ {
			out.Min[k] = min(out.Min[k], p[k])
			out.Max[k] = max(out.Max[k], p[k])
		}
	}
	return out
}
