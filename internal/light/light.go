// Package light animates the scene's directional light.
package light

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSpeed turns the light once every ten seconds.
const DefaultSpeed = math32.Pi / 5

// DefaultPitch tilts the light 45 degrees down.
const DefaultPitch = -math32.Pi / 4

// Directional is a sun-style light. It shines along its local -Z axis.
type Directional struct {
	Rotation mgl32.Quat
	Speed    float32 // yaw in radians per second
	Pitch    float32 // fixed rotation about X in radians
}

// NewDirectional returns a light already posed for elapsed = 0.
func NewDirectional(speed, pitch float32) *Directional {
	l := &Directional{Speed: speed, Pitch: pitch}
	l.Animate(0)
	return l
}

// Animate sets the rotation for the given elapsed time as Z-Y-X euler angles
// (0, elapsed*Speed, Pitch).
func (l *Directional) Animate(elapsed float32) {
	yaw := mgl32.QuatRotate(elapsed*l.Speed, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(l.Pitch, mgl32.Vec3{1, 0, 0})
	l.Rotation = yaw.Mul(pitch).Normalize()
}

// Direction returns the unit vector the light travels along.
func (l *Directional) Direction() mgl32.Vec3 {
	return l.Rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// ToLight returns the unit vector from a surface toward the light, as used for shading.
func (l *Directional) ToLight() mgl32.Vec3 {
	return l.Direction().Mul(-1)
}
