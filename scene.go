package heartfall

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameStats describes one completed Scene.Update.
type FrameStats struct {
	Frame    uint64
	Time     time.Duration
	Profile  string
	Ticked   bool
	TickTime time.Duration
	Engine   EngineStats
}

// SceneConfig configures a Scene. Zero values select defaults.
type SceneConfig struct {
	// Profiles holds the device profiles; defaults to DefaultProfiles().
	Profiles *ProfileSet
	// Clock drives spawning, throttling and ticks; defaults to a
	// MonotonicClock.
	Clock Clock
	// Rand seeds particle randomization; nil uses the global source.
	Rand *rand.Rand
	// HeartSize is the pixel size of the particle texture.
	HeartSize int
	// PoolLimit caps drawing resource allocations; 0 is unbounded.
	PoolLimit int
	// Logger receives profile switches and debug stats; defaults to
	// slog.Default().
	Logger *slog.Logger
	// Headless skips creating GPU images, for tests and tooling.
	Headless bool
}

// Scene is the landing page host. It owns the particle Engine and Spawner,
// a retained node tree (background, particle layer, overlay) and pointer
// state, and implements ebiten.Game.
type Scene struct {
	root       *Node
	background *Node
	overlay    *Node
	sprites    *SpriteLayer

	engine   *Engine
	spawner  *Spawner
	clock    Clock
	profiles ProfileSet
	profile  DeviceProfile
	logger   *slog.Logger

	width, height float64
	resizeHooks   []func(w, h float64)

	frame    uint64
	lastTick time.Duration
	ticked   bool
	lastNow  time.Duration
	closed   bool
	onFrame  func(FrameStats)

	// ClearColor fills the screen before drawing the tree.
	ClearColor Color

	// Input state
	pointers       [maxPointers]pointerState
	activePointers int
	hitBuf         []*Node
	touchMap       [maxPointers]ebiten.TouchID
	touchUsed      [maxPointers]bool
	prevTouchIDs   []ebiten.TouchID
	injectQueue    []syntheticPointerEvent

	// Scripted playback and screenshots
	runner          *ScriptRunner
	screenshotQueue []string
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	debug      bool
	debugEvery uint64
}

// NewScene creates a landing page scene with an empty background and overlay.
func NewScene(cfg SceneConfig) *Scene {
	profiles := DefaultProfiles()
	if cfg.Profiles != nil {
		profiles = *cfg.Profiles
	}
	clock := cfg.Clock
	if clock == nil {
		clock = NewMonotonicClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	heartSize := cfg.HeartSize
	if heartSize <= 0 {
		heartSize = 64
	}

	s := &Scene{
		root:          NewContainer("root"),
		background:    NewContainer("background"),
		overlay:       NewContainer("overlay"),
		clock:         clock,
		profiles:      profiles,
		profile:       profiles.Desktop,
		logger:        logger,
		ClearColor:    Color{R: 0xF8 / 255.0, G: 0xF8 / 255.0, B: 0xFA / 255.0, A: 1},
		ScreenshotDir: "screenshots",
		debugEvery:    60,
	}

	var img *ebiten.Image
	if !cfg.Headless {
		img = NewHeartImage(heartSize, HeartColor)
	}
	s.sprites = NewSpriteLayer("particles", img)
	if cfg.Headless {
		s.sprites.size = float64(heartSize)
	}

	opts := []EngineOption{
		WithClock(clock),
		WithAllocator(s.sprites.Allocator()),
		WithPoolLimit(cfg.PoolLimit),
	}
	if cfg.Rand != nil {
		opts = append(opts, WithRand(cfg.Rand))
	}
	s.engine = NewEngine(s.Viewport, opts...)
	s.spawner = NewSpawner(s.engine, clock, s.Profile, s.isExempt)

	s.root.AddChild(s.background)
	s.root.AddChild(s.sprites.Node())
	s.root.AddChild(s.overlay)
	return s
}

// Root returns the scene's root container.
func (s *Scene) Root() *Node { return s.root }

// Background returns the container drawn beneath the particles.
func (s *Scene) Background() *Node { return s.background }

// Overlay returns the container drawn above the particles. Interactable
// nodes here are exempt from spawning.
func (s *Scene) Overlay() *Node { return s.overlay }

// Engine returns the particle engine.
func (s *Scene) Engine() *Engine { return s.engine }

// Spawner returns the input-to-spawn mapper.
func (s *Scene) Spawner() *Spawner { return s.spawner }

// Profile returns the active device profile.
func (s *Scene) Profile() DeviceProfile { return s.profile }

// Viewport returns the current viewport size. It is the Engine's
// ViewportFunc, so every tick reads the latest Layout dimensions.
func (s *Scene) Viewport() (float64, float64) { return s.width, s.height }

// OnResize registers fn to run whenever the viewport size changes.
func (s *Scene) OnResize(fn func(w, h float64)) {
	s.resizeHooks = append(s.resizeHooks, fn)
}

// OnFrame registers fn to receive stats after every Update.
func (s *Scene) OnFrame(fn func(FrameStats)) {
	s.onFrame = fn
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and periodic frame stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// Resize updates the viewport and re-selects the device profile when the
// size class changes. Particles in flight keep their own profile.
func (s *Scene) Resize(w, h float64) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	next := s.profiles.Select(w)
	if next != s.profile {
		s.logger.Info("device profile changed",
			"from", s.profile.Name, "to", next.Name,
			"width", w, "height", h)
		s.profile = next
	}
	for _, fn := range s.resizeHooks {
		fn(w, h)
	}
}

// Update processes input, advances overlay animations and ticks the engine.
// After Close it returns ebiten.Termination.
func (s *Scene) Update() error {
	if s.closed {
		return ebiten.Termination
	}
	now := s.clock.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if s.frame > 0 && now > s.lastNow {
		dt = (now - s.lastNow).Seconds()
	}
	s.lastNow = now

	if s.runner != nil {
		s.runner.step(s)
	}
	s.processInput()
	updateTree(s.root, dt)

	stats := FrameStats{Frame: s.frame, Time: now, Profile: s.profile.Name}
	if !s.ticked || now-s.lastTick >= s.profile.TickInterval {
		start := time.Now()
		s.engine.Tick(now)
		stats.TickTime = time.Since(start)
		stats.Ticked = true
		s.lastTick = now
		s.ticked = true
	}
	stats.Engine = s.engine.Stats()

	if s.debug && s.debugEvery > 0 && s.frame%s.debugEvery == 0 {
		s.debugLog(stats)
	}
	if s.onFrame != nil {
		s.onFrame(stats)
	}
	s.frame++
	return nil
}

// Draw clears the screen and renders the node tree.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())
	drawTree(screen, s.root)
	s.flushScreenshots(screen)
}

// Layout reports the outside size as the logical screen size, so the
// viewport always matches the window or browser canvas.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Close tears the scene down: every particle is destroyed, its sprite
// detached, and the next Update ends the game loop. Safe to call repeatedly.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.spawner.OnDeactivate()
	s.engine.DestroyAll()
	s.injectQueue = s.injectQueue[:0]
}

// Closed reports whether Close has been called.
func (s *Scene) Closed() bool {
	return s.closed
}
