package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/heartfall"
)

const defaultFrameInterval = 16 * time.Millisecond // ~60 FPS

// Options configures an App. Zero values select defaults.
type Options struct {
	Profiles      *heartfall.ProfileSet
	Clock         heartfall.Clock
	Logger        *slog.Logger
	CellWidth     float64
	CellHeight    float64
	FrameInterval time.Duration
	// Hint is drawn on the bottom row. The row is exempt from spawning.
	Hint string
}

// App runs the particle engine in a terminal: mouse drags spawn hearts,
// Esc, Ctrl+C or q quits.
type App struct {
	screen  tcell.Screen
	canvas  *Canvas
	engine  *heartfall.Engine
	spawner *heartfall.Spawner
	clock   heartfall.Clock
	logger  *slog.Logger

	profiles heartfall.ProfileSet
	profile  heartfall.DeviceProfile
	width    float64

	hint          string
	frameInterval time.Duration
	lastTick      time.Duration
	ticked        bool
	closed        bool

	// down tracks button 1; spawning is set only when the press started an
	// interaction. A press on the hint row is captured and never spawns.
	down     bool
	spawning bool
}

// New creates an App drawing to an initialized screen. Mouse reporting is
// enabled on the screen.
func New(screen tcell.Screen, opts Options) *App {
	profiles := heartfall.DefaultProfiles()
	if opts.Profiles != nil {
		profiles = *opts.Profiles
	}
	clock := opts.Clock
	if clock == nil {
		clock = heartfall.NewMonotonicClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	hint := opts.Hint
	if hint == "" {
		hint = "drag to spawn hearts · q to quit"
	}

	a := &App{
		screen:        screen,
		canvas:        NewCanvas(screen, opts.CellWidth, opts.CellHeight),
		clock:         clock,
		logger:        logger,
		profiles:      profiles,
		hint:          hint,
		frameInterval: interval,
	}
	a.engine = heartfall.NewEngine(a.canvas.Viewport,
		heartfall.WithClock(clock),
		heartfall.WithAllocator(a.canvas.Allocator()),
	)
	a.spawner = heartfall.NewSpawner(a.engine, clock, a.Profile, a.isExempt)
	a.resize()

	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()
	return a
}

// Engine returns the particle engine.
func (a *App) Engine() *heartfall.Engine { return a.engine }

// Canvas returns the immediate-mode canvas.
func (a *App) Canvas() *Canvas { return a.canvas }

// Profile returns the active device profile.
func (a *App) Profile() heartfall.DeviceProfile { return a.profile }

// isExempt reserves the bottom row for the hint line.
func (a *App) isExempt(_, y float64) bool {
	_, h := a.screen.Size()
	return y >= float64(h-1)*a.canvas.cellH
}

// resize re-reads the terminal size and re-selects the profile.
func (a *App) resize() {
	w, h := a.canvas.Viewport()
	next := a.profiles.Select(w)
	if next != a.profile {
		a.logger.Debug("device profile changed", "from", a.profile.Name, "to", next.Name, "width", w, "height", h)
		a.profile = next
	}
	a.width = w
}

// HandleEvent processes one terminal event and reports whether the app
// should keep running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	if a.closed {
		return false
	}
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := a.canvas.ToVirtual(col, row)
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !a.down:
			a.down = true
			a.spawning = a.spawner.OnActivate(x, y)
		case down && a.spawning:
			a.spawner.OnMove(x, y)
		case !down && a.down:
			a.down = false
			if a.spawning {
				a.spawning = false
				a.spawner.OnDeactivate()
			}
		}
	}
	return true
}

// Frame ticks the engine (honoring the profile's tick interval) and redraws.
func (a *App) Frame() {
	if a.closed {
		return
	}
	now := a.clock.Now()
	if !a.ticked || now-a.lastTick >= a.profile.TickInterval {
		a.engine.Tick(now)
		a.lastTick = now
		a.ticked = true
	}
	a.canvas.Draw()
	a.drawHint()
	a.screen.Show()
}

func (a *App) drawHint() {
	w, h := a.screen.Size()
	if h == 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	col := 0
	for _, r := range a.hint {
		if col >= w {
			break
		}
		a.screen.SetContent(col, h-1, r, nil, style)
		col++
	}
}

// Run drives the app until ctx is done, the user quits or Close is called.
// Terminal events are read on a helper goroutine and handled on the
// calling goroutine together with frame ticks.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	defer a.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if a.closed {
				return nil
			}
			a.Frame()
		}
	}
}

// Close destroys every particle and stops the app. Safe to call repeatedly.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.spawner.OnDeactivate()
	a.engine.DestroyAll()
	a.canvas.Draw()
	a.screen.Show()
}
