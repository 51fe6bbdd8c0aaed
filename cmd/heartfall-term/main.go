// Heartfall-term runs the heart particle engine in a terminal. Drag with
// the mouse to spawn hearts; Esc, Ctrl+C or q quits.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/heartfall"
	"github.com/phanxgames/heartfall/term"
)

func main() {
	configPath := flag.String("config", "", "Path to a profiles YAML overlay (empty = built-in profiles)")
	cellW := flag.Float64("cell-width", term.DefaultCellWidth, "Virtual pixels per terminal column")
	cellH := flag.Float64("cell-height", term.DefaultCellHeight, "Virtual pixels per terminal row")
	logPath := flag.String("log", "", "Write JSON logs to this file (the terminal is in use)")

	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			slog.Error("failed to create log file", "path", *logPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	profiles, err := heartfall.LoadProfiles(*configPath)
	if err != nil {
		slog.Error("failed to load profiles", "error", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to create screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to initialize screen", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := term.New(screen, term.Options{
		Profiles:   &profiles,
		Logger:     logger,
		CellWidth:  *cellW,
		CellHeight: *cellH,
	})
	logger.Info("starting", "profile", app.Profile().Name)
	runErr := app.Run(ctx)
	screen.Fini()

	stats := app.Engine().Stats()
	logger.Info("stopped", "spawned", stats.Spawned, "evicted", stats.Evicted, "expired", stats.Expired)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("terminal app exited", "error", runErr)
		os.Exit(1)
	}
}
