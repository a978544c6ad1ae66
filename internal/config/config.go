// Package config loads the demo's YAML settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"scene-physics/internal/light"
	"scene-physics/internal/logger"
)

// DefaultPath is the config file path, relative to the process working directory.
const DefaultPath = "config/demo.yaml"

// Camera places the 3D camera.
type Camera struct {
	Position   [3]float32 `yaml:"position,flow"`
	Target     [3]float32 `yaml:"target,flow"`
	Fovy       float32    `yaml:"fovy"`
	// GridExtent is the half width of the ground grid in meters; 0 hides it.
	GridExtent int        `yaml:"grid_extent"`
}

// Light configures the animated directional light.
type Light struct {
	Speed float32 `yaml:"speed"`
	Pitch float32 `yaml:"pitch"`
}

// Window configures the raylib window.
type Window struct {
	Title     string `yaml:"title"`
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	TargetFPS int32  `yaml:"target_fps"`
}

// Config holds every tunable of the demo. Missing keys keep their Default() value.
type Config struct {
	Asset         string        `yaml:"asset"`
	StartupScene  int           `yaml:"startup_scene"`
	SpawnScene    int           `yaml:"spawn_scene"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	SpawnPosition [3]float32    `yaml:"spawn_position,flow"`
	Gravity       [3]float32    `yaml:"gravity,flow"`
	KillPlaneY    float32       `yaml:"kill_plane_y"`
	// StrictContent makes a Cuboid collider without cube_size abort the process.
	StrictContent bool   `yaml:"strict_content"`
	WatchAssets   bool   `yaml:"watch_assets"`
	PhysicsDebug  bool   `yaml:"physics_debug"`
	ShowFPS       bool   `yaml:"show_fps"`
	LogPath       string `yaml:"log_path"`
	Camera        Camera `yaml:"camera"`
	Light         Light  `yaml:"light"`
	Window        Window `yaml:"window"`
}

// Default returns the stock demo settings: scene 1 at startup, scene 0 every second at (0, 10, 0).
func Default() Config {
	return Config{
		Asset:         "assets/everything.glb",
		StartupScene:  1,
		SpawnScene:    0,
		SpawnInterval: time.Second,
		SpawnPosition: [3]float32{0, 10, 0},
		Gravity:       [3]float32{0, -9.81, 0},
		KillPlaneY:    -100,
		StrictContent: true,
		WatchAssets:   false,
		PhysicsDebug:  true,
		ShowFPS:       false,
		LogPath:       logger.DefaultPath,
		Camera: Camera{
			Position:   [3]float32{10, 4, -5},
			Target:     [3]float32{0, 0.3, 0},
			Fovy:       45,
			GridExtent: 20,
		},
		Light: Light{Speed: light.DefaultSpeed, Pitch: light.DefaultPitch},
		Window: Window{
			Title:     "scene physics demo",
			Width:     1280,
			Height:    720,
			TargetFPS: 60,
		},
	}
}

// Load reads settings from path on top of Default(). A missing file is not an error.
// On a parse or validation error Default() is returned with the error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the demo cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Asset == "":
		return errors.New("asset is empty")
	case c.StartupScene < 0 || c.SpawnScene < 0:
		return fmt.Errorf("scene indices must be >= 0 (startup %d, spawn %d)", c.StartupScene, c.SpawnScene)
	case c.SpawnInterval <= 0:
		return fmt.Errorf("spawn_interval must be positive, got %s", c.SpawnInterval)
	case c.Camera.GridExtent < 0:
		return fmt.Errorf("camera.grid_extent must be >= 0, got %d", c.Camera.GridExtent)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// ApplyEnv overrides settings from DEMO_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DEMO_ASSET"); v != "" {
		cfg.Asset = v
	}
	if v := getenv("DEMO_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := getenv("DEMO_SPAWN_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: DEMO_SPAWN_INTERVAL: %w", err)
		}
		cfg.SpawnInterval = d
	}
	bools := []struct {
		key string
		dst *bool
	}{
		{"DEMO_STRICT_CONTENT", &cfg.StrictContent},
		{"DEMO_WATCH_ASSETS", &cfg.WatchAssets},
		{"DEMO_PHYSICS_DEBUG", &cfg.PhysicsDebug},
		{"DEMO_SHOW_FPS", &cfg.ShowFPS},
	}
	for _, b := range bools {
		v := getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", b.key, err)
		}
		*b.dst = parsed
	}
	return cfg.Validate()
}
