// Package app wires the demo together: the startup scene, the periodic cube spawner,
// the collider pass on every spawned instance, the physics world and the animated light.
package app

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"scene-physics/internal/collider"
	"scene-physics/internal/config"
	"scene-physics/internal/light"
	"scene-physics/internal/logger"
	"scene-physics/internal/physics"
	"scene-physics/internal/scene"
	"scene-physics/internal/spawn"
)

// SceneSource hands out spawnable scenes by index. *assets.Handle satisfies it.
type SceneSource interface {
	Scene(index int) scene.TemplateSource
}

// Stats is a snapshot of the simulation for overlays and headless runs.
type Stats struct {
	Elapsed   time.Duration
	Nodes     int
	Bodies    int
	Dynamic   int
	Pending   int
	Spawned   int
	Despawned int
	Failed    int
}

// App owns the scene and physics worlds and advances them one frame at a time.
type App struct {
	cfg config.Config
	log *logger.Logger
	src SceneSource

	Scenes  *scene.World
	Physics *physics.World
	Light   *light.Directional

	attacher *collider.Attacher
	spawner  *spawn.Spawner

	elapsed   time.Duration
	spawned   int
	despawned int
	failed    int
}

// New builds an app from cfg. Nothing is spawned until Startup.
func New(cfg config.Config, log *logger.Logger, src SceneSource) *App {
	a := &App{
		cfg:      cfg,
		log:      log,
		src:      src,
		Scenes:   scene.NewWorld(),
		Physics:  physics.NewWorld(mgl32.Vec3(cfg.Gravity)),
		Light:    light.NewDirectional(cfg.Light.Speed, cfg.Light.Pitch),
		attacher: collider.NewAttacher(log, cfg.StrictContent),
	}
	at := scene.FromXYZ(cfg.SpawnPosition[0], cfg.SpawnPosition[1], cfg.SpawnPosition[2])
	a.spawner = spawn.New(a.Scenes, src.Scene(cfg.SpawnScene), at, cfg.SpawnInterval)
	a.spawner.OnReady = a.onSceneReady
	a.spawner.OnError = a.onSpawnError
	return a
}

// Startup queues the level scene. It appears on the first Update after its asset finished loading.
func (a *App) Startup() {
	a.Scenes.Spawn(scene.SpawnRequest{
		Source:    a.src.Scene(a.cfg.StartupScene),
		Transform: scene.IdentityTransform(),
		OnReady:   a.onSceneReady,
		OnError:   a.onSpawnError,
	})
	a.log.Infof("startup: scene %d of %s queued", a.cfg.StartupScene, a.cfg.Asset)
}

// onSceneReady resolves colliders for a new instance and registers a body for each node that got one.
func (a *App) onSceneReady(root *scene.Node) {
	a.spawned++
	a.attacher.OnSceneReady(root)
	for _, n := range scene.Descendants(root) {
		if n.Physics == nil {
			continue
		}
		if _, err := a.Physics.Add(n.ID, *n.Physics, scene.WorldPose(n), n.Mesh.Geometry()); err != nil {
			a.log.Errorf("add body for %s: %v", n.Path(), err)
			a.failed++
		}
	}
}

func (a *App) onSpawnError(err error) {
	a.failed++
	a.log.Errorf("spawn: %v", err)
}

// Update advances one frame: light, spawn timer, pending spawns, physics, then the kill plane.
func (a *App) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	a.elapsed += dt
	a.Light.Animate(float32(a.elapsed.Seconds()))
	a.spawner.Update(dt)
	a.Scenes.Update()
	a.Physics.Step(float32(dt.Seconds()))
	a.syncNodes()
	a.cull()
}

// syncNodes copies simulated positions of dynamic bodies back onto their nodes.
func (a *App) syncNodes() {
	for _, b := range a.Physics.Bodies() {
		if b.Static() {
			continue
		}
		if n, ok := a.Scenes.Node(b.ID); ok {
			scene.SetWorldPosition(n, b.Position)
		}
	}
}

// cull despawns every dynamic body that fell below the kill plane, together with its node.
// An instance root left without children goes too.
func (a *App) cull() {
	for _, id := range a.Physics.BelowY(a.cfg.KillPlaneY) {
		n, ok := a.Scenes.Node(id)
		if !ok {
			a.Physics.Remove(id)
			continue
		}
		root := n.Parent
		a.despawn(n)
		if root != nil && root.Parent == nil && len(root.Children) == 0 {
			a.Scenes.Despawn(root)
		}
	}
}

func (a *App) despawn(n *scene.Node) {
	a.Physics.Remove(n.ID)
	for _, d := range scene.Descendants(n) {
		a.Physics.Remove(d.ID)
	}
	a.Scenes.Despawn(n)
	a.despawned++
}

// Config returns the settings the app was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// Stats returns counters for the current frame.
func (a *App) Stats() Stats {
	s := Stats{
		Elapsed:   a.elapsed,
		Nodes:     a.Scenes.Len(),
		Bodies:    a.Physics.Len(),
		Pending:   a.Scenes.Pending(),
		Spawned:   a.spawned,
		Despawned: a.despawned,
		Failed:    a.failed,
	}
	for _, b := range a.Physics.Bodies() {
		if !b.Static() {
			s.Dynamic++
		}
	}
	return s
}
