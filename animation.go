package heartfall

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// popIn animates a particle's display scale from 0 to its target scale.
// The tween is advanced by the time between ticks, so it runs on the same
// clock as the rest of the simulation.
type popIn struct {
	tween *gween.Tween
	done  bool
}

func newPopIn(scale float64, d time.Duration) popIn {
	if d <= 0 {
		return popIn{done: true}
	}
	return popIn{tween: gween.New(0, float32(scale), float32(d.Seconds()), ease.OutBack)}
}

// advance moves the tween forward by dt and returns the current scale.
func (a *popIn) advance(dt time.Duration, scale float64) float64 {
	if a.done || a.tween == nil {
		return scale
	}
	if dt < 0 {
		dt = 0
	}
	v, finished := a.tween.Update(float32(dt.Seconds()))
	if finished {
		a.done = true
		return scale
	}
	return float64(v)
}
