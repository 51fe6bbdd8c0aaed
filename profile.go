package heartfall

import (
	"errors"
	"fmt"
	"time"
)

// DefaultBreakpoint is the viewport width, in pixels, below which the mobile
// profile is selected.
const DefaultBreakpoint = 768

// DeviceProfile is an immutable bundle of tuning constants for one viewport
// size class. Particles keep the profile they were spawned with for their
// whole life, so switching profiles never retunes particles already in flight.
type DeviceProfile struct {
	Name string `yaml:"name"`

	// SpawnThrottle is the minimum time between accepted spawns on move.
	SpawnThrottle time.Duration `yaml:"spawn_throttle"`
	// SpawnBatch is the number of particles emitted per accepted spawn.
	SpawnBatch int `yaml:"spawn_batch"`
	// MaxConcurrent caps the number of live particles.
	MaxConcurrent int `yaml:"max_concurrent"`
	// Evict allows the oldest particle to be evicted when the cap is reached.
	// When false, spawns at the cap are dropped.
	Evict bool `yaml:"evict"`

	// Gravity is added to vy every tick, in pixels per tick squared.
	Gravity float64 `yaml:"gravity"`
	// Bounce damps vy on floor impact.
	Bounce float64 `yaml:"bounce"`
	// WallBounce damps vx on wall impact.
	WallBounce float64 `yaml:"wall_bounce"`
	// Drag multiplies vx every airborne tick.
	Drag float64 `yaml:"drag"`
	// SettleThreshold is the per-axis speed under which a grounded particle
	// comes to rest.
	SettleThreshold float64 `yaml:"settle_threshold"`

	// Speed is the initial speed range in pixels per tick.
	Speed Range `yaml:"speed"`
	// LaunchBias is subtracted from the initial vy so particles visibly
	// launch before falling.
	LaunchBias float64 `yaml:"launch_bias"`
	// ScaleRange is the range of target scale factors.
	ScaleRange Range `yaml:"scale"`
	// RotationRange is the range of initial rotations in degrees.
	RotationRange Range `yaml:"rotation"`
	// Spin is the range of rotation deltas applied per airborne tick, in degrees.
	Spin Range `yaml:"spin"`
	// Size is the particle edge length in pixels used for collisions.
	Size float64 `yaml:"size"`

	// Lifetime is how long a particle stays fully opaque.
	Lifetime time.Duration `yaml:"lifetime"`
	// FadeDuration is the linear fade-out window after Lifetime.
	FadeDuration time.Duration `yaml:"fade_duration"`
	// PopDuration is the length of the pop-in scale animation.
	PopDuration time.Duration `yaml:"pop_duration"`

	// TickInterval throttles the simulation to a fixed interval. Zero ticks on
	// every display refresh.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Validate reports the first nonsensical value in the profile.
func (p DeviceProfile) Validate() error {
	var errs []error
	if p.SpawnBatch < 1 {
		errs = append(errs, fmt.Errorf("spawn_batch must be at least 1, got %d", p.SpawnBatch))
	}
	if p.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent must be at least 1, got %d", p.MaxConcurrent))
	}
	if p.Bounce < 0 || p.Bounce >= 1 {
		errs = append(errs, fmt.Errorf("bounce must be in [0, 1), got %g", p.Bounce))
	}
	if p.WallBounce < 0 || p.WallBounce > 1 {
		errs = append(errs, fmt.Errorf("wall_bounce must be in [0, 1], got %g", p.WallBounce))
	}
	if p.Drag <= 0 || p.Drag > 1 {
		errs = append(errs, fmt.Errorf("drag must be in (0, 1], got %g", p.Drag))
	}
	if p.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("gravity must be positive, got %g", p.Gravity))
	}
	if p.SettleThreshold <= 0 {
		errs = append(errs, fmt.Errorf("settle_threshold must be positive, got %g", p.SettleThreshold))
	}
	if p.Speed.Min < 0 || p.Speed.Max < p.Speed.Min {
		errs = append(errs, fmt.Errorf("speed range [%g, %g] is invalid", p.Speed.Min, p.Speed.Max))
	}
	if p.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %g", p.Size))
	}
	if p.Lifetime < 0 || p.FadeDuration < 0 || p.PopDuration < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if p.SpawnThrottle < 0 || p.TickInterval < 0 {
		errs = append(errs, errors.New("intervals must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// ProfileSet pairs the mobile and desktop profiles with the breakpoint that
// separates them.
type ProfileSet struct {
	Breakpoint float64       `yaml:"breakpoint"`
	Mobile     DeviceProfile `yaml:"mobile"`
	Desktop    DeviceProfile `yaml:"desktop"`
}

// Select returns the profile for a viewport of the given width.
func (s ProfileSet) Select(width float64) DeviceProfile {
	if IsMobile(width, s.Breakpoint) {
		return s.Mobile
	}
	return s.Desktop
}

// Validate checks both profiles and the breakpoint.
func (s ProfileSet) Validate() error {
	if s.Breakpoint <= 0 {
		return fmt.Errorf("breakpoint must be positive, got %g", s.Breakpoint)
	}
	if err := s.Mobile.Validate(); err != nil {
		return err
	}
	return s.Desktop.Validate()
}

// IsMobile reports whether a viewport width falls in the constrained size
// class. A non-positive breakpoint falls back to DefaultBreakpoint.
func IsMobile(width, breakpoint float64) bool {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return width < breakpoint
}
