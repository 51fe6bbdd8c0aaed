package heartfall

import "time"

// ExemptFunc reports whether the input target at (x, y) is an interactive
// control layered over the animation surface, such as a link or button.
// Exempt targets never spawn particles and keep their default behavior.
type ExemptFunc func(x, y float64) bool

// Spawner maps pointer and touch input to Engine.Spawn calls, throttled so
// high-frequency move events do not saturate the engine.
type Spawner struct {
	engine  *Engine
	clock   Clock
	profile func() DeviceProfile
	exempt  ExemptFunc

	active    bool
	spawned   bool
	lastSpawn time.Duration
}

// NewSpawner creates a spawner feeding e. profile is consulted on every
// accepted spawn so a resize takes effect immediately. A nil clock uses the
// engine's clock; a nil exempt treats every target as spawnable.
func NewSpawner(e *Engine, clock Clock, profile func() DeviceProfile, exempt ExemptFunc) *Spawner {
	if clock == nil {
		clock = e.Clock()
	}
	if exempt == nil {
		exempt = func(float64, float64) bool { return false }
	}
	return &Spawner{engine: e, clock: clock, profile: profile, exempt: exempt}
}

// OnActivate starts an interaction at (x, y) and attempts one spawn, subject
// to the throttle. Activation on an exempt target is ignored. The result
// reports whether the host should suppress the event's default action.
func (s *Spawner) OnActivate(x, y float64) bool {
	if s.exempt(x, y) {
		return false
	}
	s.active = true
	s.trySpawn(x, y)
	return true
}

// OnMove spawns at (x, y) while the interaction is active and the throttle
// interval has elapsed since the last accepted spawn. The result reports
// whether the host should suppress the event's default action.
func (s *Spawner) OnMove(x, y float64) bool {
	if !s.active || s.exempt(x, y) {
		return false
	}
	s.trySpawn(x, y)
	return true
}

// OnDeactivate ends the interaction. Particles already spawned are
// unaffected.
func (s *Spawner) OnDeactivate() {
	s.active = false
}

// Active reports whether an interaction is in progress.
func (s *Spawner) Active() bool {
	return s.active
}

// trySpawn emits one batch if the throttle allows it and reports whether it
// did.
func (s *Spawner) trySpawn(x, y float64) bool {
	prof := s.profile()
	now := s.clock.Now()
	if s.spawned && now-s.lastSpawn < prof.SpawnThrottle {
		return false
	}
	s.spawned = true
	s.lastSpawn = now

	batch := max(prof.SpawnBatch, 1)
	for range batch {
		s.engine.Spawn(x, y, prof)
	}
	return true
}
