package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelTitleHeight = 30.0
	panelMargin      = 10.0
	buttonHeight     = 22.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	handle(mx, my int, pressed bool)
	moveTo(x, y float64)
}

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64  { return c.Size + 8 }
func (c *CheckboxWrapper) moveTo(x, y float64) { c.X, c.Y = x, y }

// ButtonWrapper wraps Button to implement UIWidget
type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64  { return b.Height + 8 }
func (b *ButtonWrapper) moveTo(x, y float64) { b.X, b.Y = x, y }

// UIPanel stacks widgets vertically in a box drawn over the canvas.
type UIPanel struct {
	X, Y    float64
	Width   float64
	Title   string
	Widgets []UIWidget
	Labels  []string
	Hidden  bool

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width float64, title string) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+panelMargin, p.Y+p.Height(), label, value)
	p.Widgets = append(p.Widgets, &CheckboxWrapper{checkbox})
	p.Labels = append(p.Labels, label)
	return checkbox
}

// AddButton adds a full width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	button := NewButton(p.X+panelMargin, p.Y+p.Height(), p.Width-2*panelMargin, buttonHeight, label, onClick)
	p.Widgets = append(p.Widgets, &ButtonWrapper{button})
	// buttons carry their own label
	p.Labels = append(p.Labels, "")
	return button
}

// Height is the panel height for the current widgets.
func (p *UIPanel) Height() float64 {
	h := panelTitleHeight
	for _, widget := range p.Widgets {
		h += widget.GetHeight()
	}
	return h
}

// Contains reports whether the point (mx, my) is inside the visible panel.
func (p *UIPanel) Contains(mx, my int) bool {
	if p.Hidden {
		return false
	}
	return float64(mx) >= p.X && float64(mx) <= p.X+p.Width &&
		float64(my) >= p.Y && float64(my) <= p.Y+p.Height()
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	mx, my := ebiten.CursorPosition()
	p.handle(mx, my, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (p *UIPanel) handle(mx, my int, pressed bool) {
	p.layout()
	for _, widget := range p.Widgets {
		widget.handle(mx, my, pressed)
	}
}

// layout puts every widget back at its slot, in case the panel moved.
func (p *UIPanel) layout() {
	y := p.Y + panelTitleHeight
	for _, widget := range p.Widgets {
		widget.moveTo(p.X+panelMargin, y)
		y += widget.GetHeight()
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	p.layout()
	height := p.Height()

	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelMargin), int(p.Y+8))

	for i, widget := range p.Widgets {
		widget.Draw(screen)
		if p.Labels[i] != "" {
			if cw, ok := widget.(*CheckboxWrapper); ok {
				ebitenutil.DebugPrintAt(screen, p.Labels[i], int(cw.X+cw.Size+8), int(cw.Y))
			}
		}
	}
}

// GetCheckboxValue gets the value of a checkbox by index
func (p *UIPanel) GetCheckboxValue(index int) bool {
	if index < 0 || index >= len(p.Widgets) {
		return false
	}
	if cw, ok := p.Widgets[index].(*CheckboxWrapper); ok {
		return cw.Value
	}
	return false
}
