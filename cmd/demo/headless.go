package main

import (
	"fmt"
	"time"

	"scene-physics/internal/app"
	"scene-physics/internal/commands"
)

func registerHeadless(reg *commands.Registry) {
	fs, path := newFlagSet("headless")
	frames := fs.Int("frames", 600, "number of frames to simulate")
	dt := fs.Duration("dt", time.Second/60, "simulated frame time")
	timeout := fs.Duration("timeout", 10*time.Second, "how long to wait for the asset to load")
	reg.Register("headless", "simulate without a window and print stats", fs, func() error {
		if *frames < 0 || *dt <= 0 {
			return fmt.Errorf("headless: need frames >= 0 and dt > 0")
		}
		s, err := openSession(*path, true)
		if err != nil {
			return err
		}
		defer s.close()
		h, err := s.load()
		if err != nil {
			return err
		}
		if err := wait(h, *timeout); err != nil {
			return err
		}

		a := app.New(s.cfg, s.log, h)
		a.Startup()
		perSecond := int(time.Second / *dt)
		for i := 1; i <= *frames; i++ {
			a.Update(*dt)
			if perSecond > 0 && i%perSecond == 0 {
				st := a.Stats()
				s.log.Infof("t=%s bodies=%d dynamic=%d despawned=%d", st.Elapsed, st.Bodies, st.Dynamic, st.Despawned)
			}
		}
		st := a.Stats()
		fmt.Printf("elapsed %s: %d instances, %d nodes, %d bodies (%d dynamic), %d despawned, %d failed\n",
			st.Elapsed, st.Spawned, st.Nodes, st.Bodies, st.Dynamic, st.Despawned, st.Failed)
		return nil
	})
}
