package heartfall

import (
	"math"
	"time"
)

// Phase is a particle's position in its lifecycle:
// spawned → airborne → settled → fading → destroyed.
type Phase uint8

const (
	PhaseSpawned   Phase = iota // created, not yet ticked
	PhaseAirborne               // under physics integration
	PhaseSettled                // at rest on the floor; integration stopped
	PhaseFading                 // past its lifetime, opacity decaying
	PhaseDestroyed              // removed from the engine
)

var phaseNames = [...]string{"spawned", "airborne", "settled", "fading", "destroyed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Particle is one decorative, physically simulated heart. Fields are owned
// by the Engine; callers read them but must not write them.
type Particle struct {
	ID uint64

	X, Y   float64
	VX, VY float64

	// Scale is the target scale; DisplayScale is the pop-in animated value
	// renderers should draw with.
	Scale        float64
	DisplayScale float64
	// Rotation in degrees. Accumulates without wrapping.
	Rotation float64
	Opacity  float64

	Created time.Duration
	Settled bool

	spin      float64
	ticked    bool
	destroyed bool
	fading    bool
	lastTick  time.Duration
	pop       popIn
	profile   *DeviceProfile
	resource  Resource
}

// Phase reports the particle's lifecycle phase.
func (p *Particle) Phase() Phase {
	switch {
	case p.destroyed:
		return PhaseDestroyed
	case p.fading:
		return PhaseFading
	case p.Settled:
		return PhaseSettled
	case p.ticked:
		return PhaseAirborne
	}
	return PhaseSpawned
}

// Size returns the collision edge length from the particle's profile.
func (p *Particle) Size() float64 {
	return p.profile.Size
}

// Profile returns the profile the particle was spawned with.
func (p *Particle) Profile() DeviceProfile {
	return *p.profile
}

// Age returns the time elapsed between creation and now.
func (p *Particle) Age(now time.Duration) time.Duration {
	return now - p.Created
}

// expired reports whether the particle has outlived lifetime plus fade.
func (p *Particle) expired(now time.Duration) bool {
	return p.Age(now) > p.profile.Lifetime+p.profile.FadeDuration
}

// updateOpacity derives opacity from age. It never increases once the
// lifetime has elapsed.
func (p *Particle) updateOpacity(now time.Duration) {
	age := p.Age(now)
	if age <= p.profile.Lifetime {
		p.Opacity = 1
		return
	}
	p.fading = true
	fade := p.profile.FadeDuration
	if fade <= 0 {
		p.Opacity = 0
		return
	}
	o := 1 - float64(age-p.profile.Lifetime)/float64(fade)
	p.Opacity = math.Min(p.Opacity, clamp01(o))
}

// step advances physics by one tick inside a viewport of w×h pixels.
// Settled particles are not integrated, but are kept inside the current
// bounds when the viewport shrinks.
func (p *Particle) step(w, h float64) {
	p.ticked = true
	if p.Settled {
		p.clampToViewport(w, h)
		return
	}
	prof := p.profile
	size := prof.Size

	p.VY += prof.Gravity
	p.X += p.VX
	p.Y += p.VY

	grounded := false
	floor := h - size
	if p.Y > floor {
		p.Y = floor
		p.VY = -p.VY * prof.Bounce
		grounded = true
		// A rebound slower than one tick of gravity cannot leave the floor.
		if math.Abs(p.VY) < math.Max(prof.SettleThreshold, prof.Gravity) {
			p.VY = 0
			p.VX *= prof.Bounce
		}
	}

	right := w - size
	if p.X < 0 || p.X > right {
		p.VX = -p.VX * prof.WallBounce
	}
	p.X = math.Max(0, math.Min(p.X, right))

	p.VX *= prof.Drag
	p.Rotation += p.spin

	if grounded && math.Abs(p.VX) < prof.SettleThreshold && math.Abs(p.VY) < prof.SettleThreshold {
		p.VX, p.VY = 0, 0
		p.Settled = true
	}
}

// clampToViewport pulls a freshly spawned particle inside the walls and above
// the floor.
func (p *Particle) clampToViewport(w, h float64) {
	size := p.profile.Size
	p.X = math.Max(0, math.Min(p.X, w-size))
	p.Y = math.Min(p.Y, h-size)
}

// viewportUsable reports whether a viewport can hold a particle of the given
// size. Collision math is skipped for degenerate viewports.
func viewportUsable(w, h, size float64) bool {
	return w >= size && h >= size && w > 0 && h > 0
}
