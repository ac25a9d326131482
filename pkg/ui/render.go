package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/simulation"
)

// Canvas is the persistent offscreen image the boids are painted on. It is
// not cleared between frames so that the trail wash can fade old glyphs.
type Canvas struct {
	image      *ebiten.Image
	glyphFace  *text.GoTextFace
	glyphColor color.RGBA
	background color.RGBA
	wash       color.NRGBA
	style      flock.ConnectionStyle
}

// NewCanvas loads the Go Mono face and prepares the colours from cfg.
func NewCanvas(cfg *simulation.Config) (*Canvas, error) {
	source, err := loadGoMono()
	if err != nil {
		return nil, err
	}
	glyph, err := cfg.GlyphRGBA()
	if err != nil {
		return nil, err
	}
	background, err := cfg.BackgroundRGBA()
	if err != nil {
		return nil, err
	}
	return &Canvas{
		glyphFace:  &text.GoTextFace{Source: source, Size: cfg.GlyphSize},
		glyphColor: glyph,
		background: background,
		wash:       washColor(background, cfg.TrailAlpha()),
		style:      cfg.ConnectionStyle(),
	}, nil
}

func loadGoMono() (*text.GoTextFaceSource, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load Go Mono: %w", err)
	}
	return source, nil
}

// Image returns the canvas, or nil before the first Paint.
func (c *Canvas) Image() *ebiten.Image {
	return c.image
}

// Paint renders one snapshot. wipe clears the canvas first, otherwise the
// previous frames are washed out by the trail colour. A resize always wipes.
func (c *Canvas) Paint(snap *simulation.Snapshot, wipe, connections bool) {
	w, h := int(snap.Width), int(snap.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if c.image == nil || c.image.Bounds().Dx() != w || c.image.Bounds().Dy() != h {
		if c.image != nil {
			c.image.Deallocate()
		}
		c.image = ebiten.NewImage(w, h)
		wipe = true
	}

	if wipe {
		c.image.Fill(c.background)
	} else {
		vector.FillRect(c.image, 0, 0, float32(w), float32(h), c.wash, false)
	}

	if connections {
		for _, line := range flock.Connections(snap.Boids, c.style) {
			vector.StrokeLine(c.image,
				float32(line.From.X), float32(line.From.Y),
				float32(line.To.X), float32(line.To.Y),
				float32(line.Thickness),
				lineColor(c.glyphColor, line.Opacity),
				true)
		}
	}

	for _, b := range snap.Boids {
		op := &text.DrawOptions{}
		op.GeoM.Translate(b.Pos.X, b.Pos.Y)
		op.ColorScale.ScaleWithColor(c.glyphColor)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(c.image, string(b.Glyph), c.glyphFace, op)
	}
}

// neighbourhoodColor marks the nearby set of the boid under the cursor.
var neighbourhoodColor = color.RGBA{R: 220, G: 60, B: 60, A: 255}

// DrawNeighbourhood rings the boid nearest to (x, y) with the nearby radius
// and links it to every boid inside it. It draws on dst, not on the canvas,
// so it leaves no trail.
func (c *Canvas) DrawNeighbourhood(dst *ebiten.Image, snap *simulation.Snapshot, x, y float64) {
	focus, all := nearestBoid(snap.Boids, geometry.NewVector(x, y))
	if focus == nil {
		return
	}
	vector.StrokeCircle(dst,
		float32(focus.Pos.X), float32(focus.Pos.Y),
		flock.DefaultNearbyDistance, 1, neighbourhoodColor, true)

	for _, n := range flock.Nearby(focus, all, flock.DefaultNearbyDistance) {
		vector.StrokeLine(dst,
			float32(focus.Pos.X), float32(focus.Pos.Y),
			float32(n.Boid.Pos.X), float32(n.Boid.Pos.Y),
			1, neighbourhoodColor, true)
	}
}

// nearestBoid returns the boid closest to p, along with pointers to every
// boid of the snapshot for the neighbour query.
func nearestBoid(boids []flock.Boid, p geometry.Vector2D) (*flock.Boid, []*flock.Boid) {
	if len(boids) == 0 {
		return nil, nil
	}
	all := make([]*flock.Boid, len(boids))
	var focus *flock.Boid
	best := math.Inf(1)
	for i := range boids {
		all[i] = &boids[i]
		if d := boids[i].Pos.DistanceSquaredTo(p); d < best {
			best = d
			focus = all[i]
		}
	}
	return focus, all
}

// washColor is the background at the trail opacity.
func washColor(background color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: background.R,
		G: background.G,
		B: background.B,
		A: unitToByte(alpha),
	}
}

// lineColor is the glyph colour at a connection's opacity.
func lineColor(glyph color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: glyph.R, G: glyph.G, B: glyph.B, A: unitToByte(opacity)}
}

func unitToByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
