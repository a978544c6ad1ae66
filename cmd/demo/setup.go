package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"scene-physics/internal/assets"
	"scene-physics/internal/config"
	"scene-physics/internal/logger"
)

// session is what every subcommand starts from: settings, a log and an asset server.
type session struct {
	cfg    config.Config
	log    *logger.Logger
	server *assets.Server
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", config.DefaultPath, "path to the YAML settings file")
	return fs, path
}

// openSession loads settings from path, applies DEMO_* overrides and starts the asset server.
// mirror copies log lines to stderr.
func openSession(path string, mirror bool) (*session, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogPath)
	if mirror {
		log.SetMirror(os.Stderr)
	}
	return &session{cfg: cfg, log: log, server: assets.NewServer(log)}, nil
}

// load starts loading the configured asset and, when asked, hot-reloads it on change.
func (s *session) load() (*assets.Handle, error) {
	h := s.server.Load(s.cfg.Asset)
	if s.cfg.WatchAssets {
		if err := s.server.Watch(); err != nil {
			return nil, fmt.Errorf("watch assets: %w", err)
		}
	}
	return h, nil
}

// wait blocks until h finished its first load or timeout passed.
func wait(h *assets.Handle, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.Wait(ctx)
}

func (s *session) close() {
	if err := s.server.Close(); err != nil {
		s.log.Errorf("close asset server: %v", err)
	}
}
