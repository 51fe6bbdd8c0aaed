package heartfall

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// particleIDs numbers particles across every Engine in the process.
var particleIDs atomic.Uint64

// ViewportFunc reports the current viewport size in pixels. The engine calls
// it on every tick and spawn and never caches the result.
type ViewportFunc func() (width, height float64)

// EngineStats counts particle lifecycle events since the engine was created.
type EngineStats struct {
	Live    int
	Spawned uint64
	Evicted uint64
	Expired uint64
	// Dropped counts spawns discarded at the cap or for lack of a resource.
	Dropped uint64
	Pool    PoolStats
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAllocator backs particles with pooled drawing resources from alloc.
func WithAllocator(alloc Allocator) EngineOption {
	return func(e *Engine) {
		e.alloc = alloc
	}
}

// WithPoolLimit caps the number of resources the pool may ever allocate.
func WithPoolLimit(n int) EngineOption {
	return func(e *Engine) {
		e.poolLimit = n
	}
}

// WithClock sets the clock used to stamp particle creation times.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRand sets the random source used for launch angle, speed, scale,
// rotation and spin.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) {
		e.rng = r
	}
}

// Engine owns the live particle collection and the drawing-resource pool.
// It is not safe for concurrent use: Spawn, Tick and DestroyAll must be
// called from one goroutine, which is how ebiten drives Update.
type Engine struct {
	viewport  ViewportFunc
	clock     Clock
	rng       *rand.Rand
	alloc     Allocator
	poolLimit int
	pool      *Pool

	// particles is kept in creation order; index 0 is the oldest.
	particles []*Particle
	profile   *DeviceProfile
	stats     EngineStats
}

// NewEngine creates an engine reading viewport dimensions from viewport.
func NewEngine(viewport ViewportFunc, opts ...EngineOption) *Engine {
	e := &Engine{viewport: viewport}
	for _, opt := range opts {
		opt(e)
	}
	if e.viewport == nil {
		e.viewport = func() (float64, float64) { return 0, 0 }
	}
	if e.clock == nil {
		e.clock = NewMonotonicClock()
	}
	if e.alloc != nil {
		e.pool = NewPool(e.alloc, e.poolLimit)
	}
	return e
}

// Clock returns the engine's clock.
func (e *Engine) Clock() Clock {
	return e.clock
}

// Spawn creates one particle at viewport coordinates (x, y) tuned by prof.
// At the profile's cap the oldest particle is evicted first, or the spawn is
// dropped when prof.Evict is false. A spawn that cannot acquire a drawing
// resource is dropped. The boolean reports whether a particle was created.
func (e *Engine) Spawn(x, y float64, prof DeviceProfile) (uint64, bool) {
	if prof.MaxConcurrent > 0 {
		for len(e.particles) >= prof.MaxConcurrent {
			if !prof.Evict {
				e.stats.Dropped++
				return 0, false
			}
			e.evictOldest()
		}
	}

	var res Resource
	if e.pool != nil {
		r, err := e.pool.Acquire()
		if err != nil {
			e.stats.Dropped++
			return 0, false
		}
		res = r
	}

	now := e.clock.Now()
	angle := Range{0, 2 * math.Pi}.Random(e.rng)
	speed := prof.Speed.Random(e.rng)
	sin, cos := math.Sincos(angle)

	p := &Particle{
		ID:       particleIDs.Add(1),
		X:        x,
		Y:        y,
		VX:       cos * speed,
		VY:       sin*speed - prof.LaunchBias,
		Scale:    prof.ScaleRange.Random(e.rng),
		Rotation: prof.RotationRange.Random(e.rng),
		Opacity:  1,
		Created:  now,
		spin:     prof.Spin.Random(e.rng),
		lastTick: now,
		profile:  e.internProfile(prof),
		resource: res,
	}
	p.pop = newPopIn(p.Scale, prof.PopDuration)
	p.DisplayScale = p.pop.advance(0, p.Scale)

	if w, h := e.viewport(); viewportUsable(w, h, prof.Size) {
		p.clampToViewport(w, h)
	}

	e.particles = append(e.particles, p)
	e.stats.Spawned++
	if res != nil {
		res.Update(p)
	}
	return p.ID, true
}

// internProfile returns a shared pointer for prof so consecutive spawns with
// the same profile do not each copy it.
func (e *Engine) internProfile(prof DeviceProfile) *DeviceProfile {
	if e.profile == nil || *e.profile != prof {
		cp := prof
		e.profile = &cp
	}
	return e.profile
}

// Tick advances every live particle by one simulation step at time now.
// Expired particles are destroyed and their resources returned to the pool;
// survivors have their resources updated before Tick returns.
func (e *Engine) Tick(now time.Duration) {
	w, h := e.viewport()

	live := e.particles[:0]
	for _, p := range e.particles {
		if p.expired(now) {
			e.destroy(p)
			e.stats.Expired++
			continue
		}
		if viewportUsable(w, h, p.profile.Size) {
			p.step(w, h)
		}
		p.updateOpacity(now)
		p.DisplayScale = p.pop.advance(now-p.lastTick, p.Scale)
		p.lastTick = now
		if p.resource != nil {
			p.resource.Update(p)
		}
		live = append(live, p)
	}
	for i := len(live); i < len(e.particles); i++ {
		e.particles[i] = nil
	}
	e.particles = live
}

// DestroyAll releases every live particle's resource and empties the
// collection. Safe to call repeatedly.
func (e *Engine) DestroyAll() {
	for i, p := range e.particles {
		e.destroy(p)
		e.particles[i] = nil
	}
	e.particles = e.particles[:0]
}

func (e *Engine) evictOldest() {
	if len(e.particles) == 0 {
		return
	}
	e.destroy(e.particles[0])
	n := copy(e.particles, e.particles[1:])
	e.particles[n] = nil
	e.particles = e.particles[:n]
	e.stats.Evicted++
}

func (e *Engine) destroy(p *Particle) {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.Opacity = 0
	if p.resource != nil {
		e.pool.Release(p.resource)
		p.resource = nil
	}
}

// Len returns the number of live particles.
func (e *Engine) Len() int {
	return len(e.particles)
}

// Particles returns the live particles in creation order, oldest first.
// The returned slice MUST NOT be mutated and is only valid until the next
// Spawn, Tick or DestroyAll.
func (e *Engine) Particles() []*Particle {
	return e.particles
}

// Each calls fn for every live particle in creation order.
func (e *Engine) Each(fn func(*Particle)) {
	for _, p := range e.particles {
		fn(p)
	}
}

// Get returns the live particle with the given id, or nil.
func (e *Engine) Get(id uint64) *Particle {
	for _, p := range e.particles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Stats returns lifecycle counters and pool accounting.
func (e *Engine) Stats() EngineStats {
	s := e.stats
	s.Live = len(e.particles)
	if e.pool != nil {
		s.Pool = e.pool.Stats()
	}
	return s
}
