package main

import (
	"fmt"
	"time"

	"scene-physics/internal/app"
	"scene-physics/internal/commands"
	"scene-physics/internal/debug"
	"scene-physics/internal/graphics"
	"scene-physics/internal/render"
)

func registerRun(reg *commands.Registry) {
	fs, path := newFlagSet("run")
	free := fs.Bool("free-camera", false, "fly the camera with mouse and keyboard")
	fps := fs.Bool("fps", false, "show the FPS counter (overrides show_fps)")
	reg.Register("run", "open the window and run the demo", fs, func() error {
		s, err := openSession(*path, false)
		if err != nil {
			return err
		}
		defer s.close()
		h, err := s.load()
		if err != nil {
			return err
		}

		a := app.New(s.cfg, s.log, h)
		a.Startup()

		r := render.New(s.cfg.Camera)
		r.FreeCamera = *free
		dbg := debug.New()
		dbg.SetShowFPS(s.cfg.ShowFPS || *fps)
		dbg.SetShowColliders(s.cfg.PhysicsDebug)

		update := func(dt float32) {
			r.Update()
			a.Update(time.Duration(dt * float32(time.Second)))
			st := a.Stats()
			dbg.SetStatus(fmt.Sprintf("bodies %d (dynamic %d) tris %d", st.Bodies, st.Dynamic, r.Triangles()))
		}
		draw := func() {
			r.Draw(a.Scenes, a.Light, func() { dbg.DrawColliders(a.Physics.Bodies()) })
			dbg.Draw()
		}
		graphics.Run(s.cfg.Window, update, draw)
		return nil
	})
}
