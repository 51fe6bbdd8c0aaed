// Heartfall serves the "coming soon" landing page in a desktop window:
// press and drag anywhere off the Contact button to shower the page with
// hearts that bounce, settle and fade.
//
// Resize the window below 768 px wide to switch to the mobile profile.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/heartfall"
	"github.com/phanxgames/heartfall/telemetry"
)

const windowTitle = "Heartfall: Coming Soon"

func main() {
	configPath := flag.String("config", "", "Path to a profiles YAML overlay (empty = built-in profiles)")
	width := flag.Int("width", 1024, "Initial window width")
	height := flag.Int("height", 768, "Initial window height")
	debug := flag.Bool("debug", false, "Log engine and pool stats periodically")
	logJSON := flag.Bool("log-json", false, "Emit JSON logs instead of text")
	statsCSV := flag.String("stats-csv", "", "Write per-frame telemetry CSV to this file")
	scriptPath := flag.String("script", "", "Play back a YAML input script")
	screenshotDir := flag.String("screenshot-dir", "screenshots", "Directory for script screenshots")
	showStats := flag.Bool("stats", false, "Show the FPS and particle count overlay")
	poolLimit := flag.Int("pool-limit", 0, "Cap sprite allocations (0 = unbounded)")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, hopts)
	if *logJSON {
		handler = slog.NewJSONHandler(os.Stderr, hopts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	profiles, err := heartfall.LoadProfiles(*configPath)
	if err != nil {
		slog.Error("failed to load profiles", "error", err)
		os.Exit(1)
	}

	scene := heartfall.NewScene(heartfall.SceneConfig{
		Profiles:  &profiles,
		PoolLimit: *poolLimit,
		Logger:    logger,
	})
	scene.ScreenshotDir = *screenshotDir
	scene.SetDebugMode(*debug)

	if _, err := heartfall.BuildPage(scene, heartfall.PageOptions{
		OnContact: func() { slog.Info("contact requested") },
	}); err != nil {
		slog.Error("failed to build page", "error", err)
		os.Exit(1)
	}
	if *showStats {
		scene.Overlay().AddChild(heartfall.NewStatsWidget(scene))
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			slog.Error("failed to read script", "path", *scriptPath, "error", err)
			os.Exit(1)
		}
		runner, err := heartfall.LoadScript(data)
		if err != nil {
			slog.Error("failed to load script", "path", *scriptPath, "error", err)
			os.Exit(1)
		}
		scene.SetScriptRunner(runner)
	}

	var recorder *telemetry.Recorder
	if *statsCSV != "" {
		f, err := os.Create(*statsCSV)
		if err != nil {
			slog.Error("failed to create telemetry file", "path", *statsCSV, "error", err)
			os.Exit(1)
		}
		recorder = telemetry.NewRecorder(f, 0)
		scene.OnFrame(func(fs heartfall.FrameStats) {
			if err := recorder.Record(telemetry.FromFrame(fs)); err != nil {
				slog.Warn("telemetry write failed", "error", err)
			}
		})
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	slog.Info("starting", "width", *width, "height", *height, "breakpoint", profiles.Breakpoint)
	runErr := ebiten.RunGame(scene)
	scene.Close()

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			slog.Warn("telemetry close failed", "error", err)
		}
		sum := recorder.Summary()
		slog.Info("telemetry summary",
			"frames", sum.Frames,
			"ticks", sum.Ticks,
			"mean_tick_us", sum.MeanTickUS,
			"stddev_tick_us", sum.StdDevTickUS,
			"p95_tick_us", sum.P95TickUS,
			"max_live", sum.MaxLive,
			"max_pool", sum.MaxPool,
		)
	}

	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		slog.Error("game exited", "error", runErr)
		os.Exit(1)
	}
}
