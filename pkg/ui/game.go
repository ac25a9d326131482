package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/clock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/simulation"
)

const timeTextSize = 28

// Game is the ebiten frame driver. It never touches the boids itself: the
// epoch timer and the frame limiter decide when to message the world actor,
// and Draw paints the latest snapshot it got back.
type Game struct {
	ctx    context.Context
	engine *simulation.Engine
	cfg    *simulation.Config

	limiter *clock.FrameLimiter
	epochs  *clock.EpochTimer

	canvas   *Canvas
	timeFace *text.GoTextFace
	width    int
	height   int

	lastState *simulation.Snapshot
	pending   *simulation.Snapshot
	wipe      bool

	// UI Controls
	panel             *UIPanel
	widgetConnections *Checkbox
	widgetTrail       *Checkbox

	mode           flock.UpdateMode
	showStats      bool
	showNeighbours bool
}

// NewGame builds the window driver around a started engine.
func NewGame(ctx context.Context, cfg *simulation.Config, engine *simulation.Engine) (*Game, error) {
	canvas, err := NewCanvas(cfg)
	if err != nil {
		return nil, err
	}
	source, err := loadGoMono()
	if err != nil {
		return nil, err
	}

	g := &Game{
		ctx:      ctx,
		engine:   engine,
		cfg:      cfg,
		limiter:  clock.NewFrameLimiter(cfg.FPS),
		epochs:   clock.NewEpochTimer(cfg.Epoch()),
		canvas:   canvas,
		timeFace: &text.GoTextFace{Source: source, Size: timeTextSize},
		width:    int(cfg.CanvasWidth),
		height:   int(cfg.CanvasHeight),
		mode:     cfg.Mode(),
	}

	g.panel = NewUIPanel(10, 10, 160, "Boids Clock")
	g.widgetConnections = g.panel.AddCheckbox("Connections", cfg.ShowConnections)
	g.widgetTrail = g.panel.AddCheckbox("Trail", cfg.Trail)
	g.widgetTrail.OnChange = func(bool) { g.wipe = true }
	g.panel.AddButton("Reseed", g.epochs.Force)

	return g, nil
}

func (g *Game) Update() error {
	if err := g.handleKeys(); err != nil {
		return err
	}
	g.panel.Update()

	now := time.Now()
	if g.epochs.Due(now) {
		if err := g.engine.Reseed(g.ctx, now); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
	}
	if g.limiter.Ready(now) {
		if err := g.engine.Frame(g.ctx, float64(g.width), float64(g.height)); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}

	since := uint64(0)
	if g.lastState != nil {
		since = g.lastState.Epoch
	}
	if snap, epochChanged := g.engine.Latest(since); snap != nil {
		g.pending = snap
		g.lastState = snap
		if epochChanged {
			g.wipe = true
		}
	}
	return nil
}

func (g *Game) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.widgetConnections.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.widgetTrail.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.epochs.Force()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.panel.Hidden = !g.panel.Hidden
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.showStats = !g.showStats
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.showNeighbours = !g.showNeighbours
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if err := g.engine.SetMode(g.ctx, g.mode.Toggle()); err != nil {
			return fmt.Errorf("update mode: %w", err)
		}
		g.mode = g.mode.Toggle()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Paint only when the world moved, the canvas keeps the trail otherwise
	if g.pending != nil {
		wipe := g.wipe || !g.widgetTrail.Value
		g.canvas.Paint(g.pending, wipe, g.widgetConnections.Value)
		g.pending = nil
		g.wipe = false
	}

	if img := g.canvas.Image(); img != nil {
		screen.DrawImage(img, nil)
	} else {
		screen.Fill(g.canvas.background)
	}

	if g.lastState != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(g.width)/2, 12)
		op.ColorScale.ScaleWithColor(g.canvas.glyphColor)
		op.PrimaryAlign = text.AlignCenter
		text.Draw(screen, g.lastState.TimeText, g.timeFace, op)
	}

	if g.showNeighbours && g.lastState != nil {
		mx, my := ebiten.CursorPosition()
		g.canvas.DrawNeighbourhood(screen, g.lastState, float64(mx), float64(my))
	}

	g.panel.Draw(screen)

	if g.showStats {
		msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nMode: %s", ebiten.ActualFPS(), ebiten.ActualTPS(), g.mode)
		if g.lastState != nil {
			msg += fmt.Sprintf("\nEpoch: %d\nFrame: %d\nBoids: %d",
				g.lastState.Epoch, g.lastState.Frame, len(g.lastState.Boids))
		}
		ebitenutil.DebugPrintAt(screen, msg, g.width-150, 10)
	}
}

// Layout follows the window: the canvas is whatever size the user made it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
