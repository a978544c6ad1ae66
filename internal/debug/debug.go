package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-physics/internal/physics"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

var (
	staticWire  = rl.NewColor(80, 220, 120, 255)
	dynamicWire = rl.NewColor(240, 200, 60, 255)
)

// Debug holds runtime debugging features: text overlays in the top-right corner and
// collider wireframes in the 3D pass. All overlays are off by default.
type Debug struct {
	ShowFPS       bool
	ShowMemAlloc  bool
	ShowColliders bool
	frameCount    uint32
	lastFpsText   string
	lastMemText   string
	lastMemStats  runtime.MemStats
	status        string
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowColliders sets whether DrawColliders draws anything.
func (d *Debug) SetShowColliders(show bool) {
	d.ShowColliders = show
}

// SetStatus sets a free-form line drawn under the counters, e.g. body counts.
func (d *Debug) SetStatus(text string) {
	d.status = text
}

// DrawColliders draws each body's world AABB. Call between BeginMode3D and EndMode3D.
func (d *Debug) DrawColliders(bodies []*physics.Body) {
	if !d.ShowColliders {
		return
	}
	for _, b := range bodies {
		box := b.AABB()
		c := dynamicWire
		if b.Static() {
			c = staticWire
		}
		rl.DrawBoundingBox(rl.NewBoundingBox(
			rl.NewVector3(box.Min[0], box.Min[1], box.Min[2]),
			rl.NewVector3(box.Max[0], box.Max[1], box.Max[2]),
		), c)
	}
}

// Draw renders the enabled text overlays. Call after EndMode3D in the draw loop.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRight(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.status != "" && (d.ShowFPS || d.ShowColliders) {
		drawRight(d.status, y)
	}
}

func drawRight(text string, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fpsFontSize)
	x := int32(rl.GetScreenWidth()) - w - fpsPadding
	rl.DrawText(text, x, y, fpsFontSize, rl.Green)
}
