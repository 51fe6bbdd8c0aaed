package heartfall

import (
	"testing"
	"time"
)

func newTestSpawner(prof *DeviceProfile, exempt ExemptFunc) (*Spawner, *Engine, *ManualClock) {
	e, clock := newTestEngine(1024, 768)
	clock.Set(time.Second)
	return NewSpawner(e, nil, func() DeviceProfile { return *prof }, exempt), e, clock
}

func TestActivateSpawnsImmediately(t *testing.T) {
	prof := immortal()
	s, e, _ := newTestSpawner(&prof, nil)

	if !s.OnActivate(100, 100) {
		t.Error("OnActivate on the surface should suppress the default action")
	}
	if !s.Active() {
		t.Error("spawner not active after OnActivate")
	}
	if e.Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Len())
	}
}

func TestMoveIsThrottled(t *testing.T) {
	prof := immortal()
	s, e, clock := newTestSpawner(&prof, nil)

	s.OnActivate(100, 100)
	clock.Advance(10 * time.Millisecond)
	s.OnMove(110, 100)
	if e.Len() != 1 {
		t.Fatalf("move inside throttle window spawned: Len = %d", e.Len())
	}

	clock.Advance(prof.SpawnThrottle)
	s.OnMove(120, 100)
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2 after throttle window", e.Len())
	}

	// A burst of moves within one window yields at most one spawn.
	for range 30 {
		clock.Advance(time.Millisecond)
		s.OnMove(130, 100)
	}
	if e.Len() != 3 {
		t.Errorf("Len = %d after burst, want 3", e.Len())
	}
}

func TestMoveWithoutActivationIgnored(t *testing.T) {
	prof := immortal()
	s, e, clock := newTestSpawner(&prof, nil)

	if s.OnMove(100, 100) {
		t.Error("hover move should not suppress the default action")
	}
	s.OnActivate(100, 100)
	s.OnDeactivate()
	clock.Advance(time.Second)
	s.OnMove(200, 200)
	if e.Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Len())
	}
	if s.Active() {
		t.Error("spawner still active after OnDeactivate")
	}
}

func TestExemptTargetsNeverSpawn(t *testing.T) {
	prof := immortal()
	button := Rect{X: 0, Y: 0, Width: 50, Height: 50}
	s, e, clock := newTestSpawner(&prof, button.Contains)

	if s.OnActivate(10, 10) {
		t.Error("activation on an exempt target should keep its default action")
	}
	if s.Active() || e.Len() != 0 {
		t.Errorf("exempt activation: active=%v Len=%d", s.Active(), e.Len())
	}

	s.OnActivate(100, 100)
	clock.Advance(time.Second)
	if s.OnMove(20, 20) {
		t.Error("move over an exempt target should keep its default action")
	}
	if e.Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Len())
	}
}

func TestBatchSpawnsSeveral(t *testing.T) {
	prof := immortal()
	prof.SpawnBatch = 3
	s, e, _ := newTestSpawner(&prof, nil)

	s.OnActivate(100, 100)
	if e.Len() != 3 {
		t.Errorf("Len = %d, want 3", e.Len())
	}
}

func TestProfileReadOnEverySpawn(t *testing.T) {
	set := DefaultProfiles()
	prof := set.Desktop
	prof.Lifetime = time.Hour
	s, e, clock := newTestSpawner(&prof, nil)

	s.OnActivate(100, 100)
	prof = set.Mobile
	clock.Advance(time.Second)
	s.OnMove(200, 100)

	ps := e.Particles()
	if ps[0].Profile().Name != "desktop" || ps[1].Profile().Name != "mobile" {
		t.Errorf("profiles = %q, %q; want desktop, mobile", ps[0].Profile().Name, ps[1].Profile().Name)
	}
}
