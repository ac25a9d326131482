package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-clock/internal/terminal"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/ui"
)

// loadConfig reads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("connections") {
		cfg.ShowConnections = connections
	}
	if flags.Changed("trail") {
		cfg.Trail = trail
	}
	if flags.Changed("update-mode") {
		cfg.UpdateMode = updateMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger picks the actor system logger. A log file always wins; without
// one, only a verbose window run logs to stdout.
func newLogger(toStdout bool) (golog.Logger, func(), error) {
	level := golog.InfoLevel
	if verbose {
		level = golog.DebugLevel
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return golog.New(level, f), func() { _ = f.Close() }, nil
	}
	if toStdout && verbose {
		return golog.New(level, os.Stdout), func() {}, nil
	}
	return golog.DiscardLogger, func() {}, nil
}

func newRand() *rand.Rand {
	s := seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s>>1|1))
}

func runWindow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := simulation.StartEngine(ctx, simulation.NewWorld(cfg, newRand()), logger)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Stop(context.Background()) }()

	game, err := ui.NewGame(ctx, cfg, engine)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(int(cfg.CanvasWidth), int(cfg.CanvasHeight))
	ebiten.SetWindowTitle("Boids Clock")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

func runTerminal(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout belongs to the screen
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cellWidth <= 0 {
		cellWidth = terminal.DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = terminal.DefaultCellHeight
	}
	cols, rows := screen.Size()
	world := simulation.NewWorld(cfg, newRand())
	world.Resize(float64(cols)*cellWidth, float64(rows)*cellHeight)

	engine, err := simulation.StartEngine(ctx, world, logger)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Stop(context.Background()) }()

	driver, err := terminal.New(screen, cfg, engine, logger, cellWidth, cellHeight)
	if err != nil {
		return err
	}
	return driver.Run(ctx)
}
