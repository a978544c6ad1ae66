package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-physics/internal/config"
	"scene-physics/internal/light"
	"scene-physics/internal/scene"
)

const (
	gridMinorStep = 1
	gridMajorStep = 10
)

var (
	gridMinor = rl.NewColor(128, 128, 128, 50)
	gridMajor = rl.NewColor(160, 160, 160, 120)
	axisX     = rl.NewColor(220, 80, 80, 220)
	axisY     = rl.NewColor(80, 220, 80, 220)
	axisZ     = rl.NewColor(80, 80, 220, 220)
)

// Renderer holds a 3D camera and draws the spawned scene instances.
// Meshes are shaded on the CPU per triangle from the animated directional light.
type Renderer struct {
	Camera      rl.Camera3D
	GridVisible bool
	// FreeCamera lets the user fly the camera with mouse and keyboard.
	FreeCamera bool
	cursorDone bool
	gridExtent int
	triangles  int
}

// New returns a renderer with a perspective camera placed from cfg. The grid is shown
// when cfg.GridExtent is positive.
func New(cfg config.Camera) *Renderer {
	r := &Renderer{GridVisible: cfg.GridExtent > 0, gridExtent: cfg.GridExtent}
	r.Camera.Position = rl.NewVector3(cfg.Position[0], cfg.Position[1], cfg.Position[2])
	r.Camera.Target = rl.NewVector3(cfg.Target[0], cfg.Target[1], cfg.Target[2])
	r.Camera.Up = rl.NewVector3(0, 1, 0)
	r.Camera.Fovy = cfg.Fovy
	r.Camera.Projection = rl.CameraPerspective
	return r
}

// SetGridVisible sets whether the editor grid is drawn.
func (r *Renderer) SetGridVisible(visible bool) {
	r.GridVisible = visible
}

// Triangles returns how many triangles the last Draw submitted.
func (r *Renderer) Triangles() int {
	return r.triangles
}

// Update runs once per frame. With FreeCamera the cursor is captured and raylib's
// CameraFree mode moves the camera; otherwise the camera stays fixed on its target.
func (r *Renderer) Update() {
	if !r.FreeCamera {
		return
	}
	if !r.cursorDone {
		rl.DisableCursor()
		r.cursorDone = true
	}
	rl.UpdateCamera(&r.Camera, rl.CameraFree)
}

// Draw renders the grid and every mesh node in w between BeginMode3D and EndMode3D.
// overlay, when set, runs inside the same 3D pass (e.g. collider wireframes).
func (r *Renderer) Draw(w *scene.World, sun *light.Directional, overlay func()) {
	rl.BeginMode3D(r.Camera)
	if r.GridVisible && r.gridExtent > 0 {
		r.drawGrid()
	}
	toLight := sun.ToLight()
	r.triangles = 0
	for _, root := range w.Roots() {
		for _, n := range scene.Descendants(root) {
			if n.Mesh == nil {
				continue
			}
			r.drawMesh(n, toLight)
		}
	}
	if overlay != nil {
		overlay()
	}
	rl.EndMode3D()
}

func (r *Renderer) drawMesh(n *scene.Node, toLight mgl32.Vec3) {
	m := scene.WorldMatrix(n)
	base := albedo(n)
	for _, tri := range n.Mesh.Triangles() {
		a := mgl32.TransformCoordinate(tri[0], m)
		b := mgl32.TransformCoordinate(tri[1], m)
		c := mgl32.TransformCoordinate(tri[2], m)
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Len() == 0 {
			continue
		}
		rl.DrawTriangle3D(vec(a), vec(b), vec(c), shade(base, normal.Normalize(), toLight))
		r.triangles++
	}
}

// drawGrid lays 1 m lines over the XZ plane out to gridExtent, brighter every 10 m,
// plus the three axes in red, green and blue.
func (r *Renderer) drawGrid() {
	ext := float32(r.gridExtent)
	for i := -r.gridExtent; i <= r.gridExtent; i += gridMinorStep {
		c := gridMinor
		if i%gridMajorStep == 0 {
			c = gridMajor
		}
		f := float32(i)
		rl.DrawLine3D(rl.NewVector3(f, 0, -ext), rl.NewVector3(f, 0, ext), c)
		rl.DrawLine3D(rl.NewVector3(-ext, 0, f), rl.NewVector3(ext, 0, f), c)
	}
	rl.DrawLine3D(rl.NewVector3(-ext, 0, 0), rl.NewVector3(ext, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -ext, 0), rl.NewVector3(0, ext, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -ext), rl.NewVector3(0, 0, ext), axisZ)
}
