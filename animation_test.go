package heartfall

import (
	"testing"
	"time"
)

func TestPopInReachesTargetScale(t *testing.T) {
	e, clock := newTestEngine(800, 600)
	prof := immortal()
	prof.PopDuration = 300 * time.Millisecond

	id, _ := e.Spawn(100, 100, prof)
	p := e.Get(id)
	if p.DisplayScale >= p.Scale {
		t.Errorf("DisplayScale at spawn = %v, want below %v", p.DisplayScale, p.Scale)
	}

	clock.Advance(100 * time.Millisecond)
	e.Tick(clock.Now())
	mid := p.DisplayScale
	if mid <= 0 {
		t.Errorf("DisplayScale mid pop = %v, want > 0", mid)
	}

	clock.Advance(300 * time.Millisecond)
	e.Tick(clock.Now())
	assertNear(t, "DisplayScale", p.DisplayScale, p.Scale)
}

func TestPopInDisabled(t *testing.T) {
	a := newPopIn(1.2, 0)
	assertNear(t, "advance(0)", a.advance(0, 1.2), 1.2)
}

func TestPopInNegativeDelta(t *testing.T) {
	a := newPopIn(1, time.Second)
	v := a.advance(-time.Second, 1)
	if v < -1e-3 || v > 1e-3 {
		t.Errorf("advance(-1s) = %v, want ~0", v)
	}
}
