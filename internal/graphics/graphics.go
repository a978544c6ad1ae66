package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-physics/internal/config"
)

var background = rl.NewColor(24, 26, 32, 255)

// Run opens the window and drives the main loop. Each frame it calls update with the
// frame time in seconds, then clears the screen and calls draw. Close via the window button or ESC.
func Run(win config.Window, update func(dt float32), draw func()) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(win.Width, win.Height, win.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(win.TargetFPS)

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(background)
		draw()
		rl.EndDrawing()
	}
}
