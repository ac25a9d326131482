// Package terminal is the tcell frame driver: the boids clock drawn in a
// terminal, one canvas cell per character.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/clock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/simulation"
)

// Driver feeds the world actor from a ticker and paints its snapshots on a
// tcell screen.
type Driver struct {
	screen tcell.Screen
	engine *simulation.Engine
	logger golog.Logger

	grid    *Grid
	limiter *clock.FrameLimiter
	epochs  *clock.EpochTimer
	style   flock.ConnectionStyle
	alpha   float64

	glyph, background colorful.Color

	showConnections bool
	showTrail       bool
	mode            flock.UpdateMode
	modeChanged     bool
	lastEpoch       uint64
	timeText        string
}

// New wraps an initialized screen. cellW and cellH are the canvas pixels per
// terminal cell, zero picks the defaults.
func New(screen tcell.Screen, cfg *simulation.Config, engine *simulation.Engine, logger golog.Logger, cellW, cellH float64) (*Driver, error) {
	glyph, err := colorful.Hex(cfg.GlyphColor)
	if err != nil {
		return nil, fmt.Errorf("%w: glyphColor %q", simulation.ErrInvalidConfig, cfg.GlyphColor)
	}
	background, err := colorful.Hex(cfg.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("%w: backgroundColor %q", simulation.ErrInvalidConfig, cfg.BackgroundColor)
	}
	if logger == nil {
		logger = golog.DiscardLogger
	}

	cols, rows := screen.Size()
	return &Driver{
		screen:          screen,
		engine:          engine,
		logger:          logger,
		grid:            NewGrid(cols, rows, cellW, cellH),
		limiter:         clock.NewFrameLimiter(cfg.FPS),
		epochs:          clock.NewEpochTimer(cfg.Epoch()),
		style:           cfg.ConnectionStyle(),
		alpha:           cfg.TrailAlpha(),
		glyph:           glyph,
		background:      background,
		showConnections: cfg.ShowConnections,
		showTrail:       cfg.Trail,
		mode:            cfg.Mode(),
	}, nil
}

// Run drives the clock until ctx is done or the user quits.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.limiter.Interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	d.logger.Infof("terminal driver started on a %dx%d grid", d.grid.Cols, d.grid.Rows)
	if err := d.tick(ctx, time.Now()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !d.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			if err := d.tick(ctx, now); err != nil {
				return err
			}

		case snap := <-d.engine.Snapshots():
			d.paint(snap)
		}
	}
}

// tick sends the mode, reseed and frame messages that are due at now.
func (d *Driver) tick(ctx context.Context, now time.Time) error {
	if d.modeChanged {
		if err := d.engine.SetMode(ctx, d.mode); err != nil {
			return fmt.Errorf("update mode: %w", err)
		}
		d.modeChanged = false
	}
	if d.epochs.Due(now) {
		if err := d.engine.Reseed(ctx, now); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
	}
	if d.limiter.Ready(now) {
		width, height := d.grid.CanvasSize()
		if err := d.engine.Frame(ctx, width, height); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}
	return nil
}

// handleEvent returns false when the user asked to quit.
func (d *Driver) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'c':
				d.showConnections = !d.showConnections
			case 't':
				d.showTrail = !d.showTrail
				d.grid.Clear()
			case 'r':
				d.epochs.Force()
			case 'm':
				d.mode = d.mode.Toggle()
				d.modeChanged = true
			}
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		d.grid.Resize(cols, rows)
		d.screen.Sync()
		d.logger.Debugf("terminal resized to %dx%d", cols, rows)
	}
	return true
}

// paint updates the grid from snap and flushes it to the screen.
func (d *Driver) paint(snap *simulation.Snapshot) {
	d.compose(snap)
	d.draw()
}

// compose applies the trail and stamps connections and glyphs.
func (d *Driver) compose(snap *simulation.Snapshot) {
	if snap.Epoch != d.lastEpoch || !d.showTrail {
		d.grid.Clear()
		d.lastEpoch = snap.Epoch
	} else {
		d.grid.Fade(d.alpha)
	}
	d.timeText = snap.TimeText

	if d.showConnections {
		for _, line := range flock.Connections(snap.Boids, d.style) {
			d.grid.DrawConnection(line)
		}
	}
	d.grid.DrawBoids(snap.Boids)
}

func (d *Driver) draw() {
	bg := tcell.StyleDefault.Background(toTcell(d.background))
	d.screen.Fill(' ', bg)

	for row := 0; row < d.grid.Rows; row++ {
		for col := 0; col < d.grid.Cols; col++ {
			c := d.grid.At(col, row)
			if c.Rune == 0 {
				continue
			}
			fg := shade(d.background, d.glyph, c.Intensity)
			d.screen.SetContent(col, row, c.Rune, nil, bg.Foreground(fg))
		}
	}

	// Time text on the top row, centred
	start := (d.grid.Cols - len([]rune(d.timeText))) / 2
	for i, r := range []rune(d.timeText) {
		d.screen.SetContent(start+i, 0, r, nil, bg.Foreground(toTcell(d.glyph)).Bold(true))
	}

	d.screen.Show()
}

// shade blends from background to glyph colour by intensity.
func shade(background, glyph colorful.Color, intensity float64) tcell.Color {
	if intensity > 1 {
		intensity = 1
	}
	if intensity < 0 {
		intensity = 0
	}
	return toTcell(background.BlendRgb(glyph, intensity))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
