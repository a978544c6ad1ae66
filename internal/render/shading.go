package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-physics/internal/physics"
	"scene-physics/internal/scene"
)

// defaultAmbient is the ambient term (dim so shadowed faces aren't pure black).
var defaultAmbient = [3]float32{0.2, 0.22, 0.26}

// defaultLightColor is a soft warm-white for the directional light.
var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

// defaultLightIntensity scales the directional diffuse (0–1).
const defaultLightIntensity = float32(0.75)

var (
	staticAlbedo  = rl.NewColor(128, 128, 128, 255)
	dynamicAlbedo = rl.NewColor(214, 140, 74, 255)
	plainAlbedo   = rl.NewColor(180, 180, 190, 255)
)

// albedo picks the base color from the node's resolved collider, if any.
func albedo(n *scene.Node) rl.Color {
	switch {
	case n.Physics == nil:
		return plainAlbedo
	case n.Physics.Mode == physics.Dynamic:
		return dynamicAlbedo
	default:
		return staticAlbedo
	}
}

// shade returns base lit by ambient plus one directional light. toLight must be normalized.
func shade(base rl.Color, normal, toLight mgl32.Vec3) rl.Color {
	ndotl := math32.Max(normal.Dot(toLight), 0) * defaultLightIntensity
	ch := func(c uint8, i int) uint8 {
		v := float32(c) * (defaultAmbient[i] + ndotl*defaultLightColor[i])
		return uint8(math32.Min(v, 255))
	}
	return rl.NewColor(ch(base.R, 0), ch(base.G, 1), ch(base.B, 2), base.A)
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}
