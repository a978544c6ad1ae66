// Package spawn queues scene instances on a fixed interval.
package spawn

import (
	"time"

	"scene-physics/internal/scene"
)

// Timer is a repeating timer driven by frame deltas.
type Timer struct {
	Interval time.Duration
	elapsed  time.Duration
}

// NewTimer returns a repeating timer. A non-positive interval never fires.
func NewTimer(interval time.Duration) *Timer {
	return &Timer{Interval: interval}
}

// Tick advances the timer by dt and returns how many intervals completed.
func (t *Timer) Tick(dt time.Duration) int {
	if t.Interval <= 0 || dt <= 0 {
		return 0
	}
	t.elapsed += dt
	n := int(t.elapsed / t.Interval)
	t.elapsed -= time.Duration(n) * t.Interval
	return n
}

// Elapsed returns the time accumulated toward the next completion.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Spawner asks the world for a new instance of Source each time its timer fires.
// At most one instance is requested per Update even if several intervals elapsed,
// so a long frame does not burst spawns.
type Spawner struct {
	World     *scene.World
	Source    scene.TemplateSource
	Transform scene.Transform
	OnReady   func(root *scene.Node)
	OnError   func(err error)

	timer     *Timer
	requested int
}

// New returns a spawner firing every interval.
func New(world *scene.World, source scene.TemplateSource, at scene.Transform, interval time.Duration) *Spawner {
	return &Spawner{World: world, Source: source, Transform: at, timer: NewTimer(interval)}
}

// Update advances the timer and queues a spawn when it fires. Reports whether it did.
func (s *Spawner) Update(dt time.Duration) bool {
	if s.timer.Tick(dt) == 0 {
		return false
	}
	s.World.Spawn(scene.SpawnRequest{
		Source:    s.Source,
		Transform: s.Transform,
		OnReady:   s.OnReady,
		OnError:   s.OnError,
	})
	s.requested++
	return true
}

// Requested returns the number of spawns queued so far.
func (s *Spawner) Requested() int {
	return s.requested
}
