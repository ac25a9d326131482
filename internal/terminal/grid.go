package terminal

import (
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

const (
	// DefaultCellWidth and DefaultCellHeight map one terminal cell to canvas pixels.
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0

	// cells dimmer than this are dropped from the trail
	fadeFloor = 0.02

	lineRune = '·'
)

// Cell is one character of the terminal canvas. Intensity 1 is full glyph
// colour, 0 is background.
type Cell struct {
	Rune      rune
	Intensity float64
	Glyph     bool
}

// Grid is the terminal canvas: a row-major cell buffer that persists between
// frames so the trail can fade.
type Grid struct {
	Cols, Rows   int
	CellW, CellH float64
	cells        []Cell
}

// NewGrid builds an empty cols x rows grid.
func NewGrid(cols, rows int, cellW, cellH float64) *Grid {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	g := &Grid{CellW: cellW, CellH: cellH}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid size and clears it.
func (g *Grid) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.Cols, g.Rows = cols, rows
	g.cells = make([]Cell, cols*rows)
}

// CanvasSize is the pixel size of the boid canvas behind the grid.
func (g *Grid) CanvasSize() (float64, float64) {
	return float64(g.Cols) * g.CellW, float64(g.Rows) * g.CellH
}

// CellAt maps a canvas position to the cell containing it. Positions on the
// far edge land in the last column or row.
func (g *Grid) CellAt(x, y float64) (col, row int, ok bool) {
	if g.Cols == 0 || g.Rows == 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = int(x/g.CellW), int(y/g.CellH)
	if col >= g.Cols {
		col = g.Cols - 1
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	return col, row, true
}

// At returns the cell at col, row.
func (g *Grid) At(col, row int) Cell {
	if !g.inside(col, row) {
		return Cell{}
	}
	return g.cells[row*g.Cols+col]
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// Clear wipes every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Fade dims every cell by alpha, the terminal version of the trail wash.
func (g *Grid) Fade(alpha float64) {
	keep := 1 - alpha
	for i := range g.cells {
		c := &g.cells[i]
		if c.Intensity == 0 {
			continue
		}
		c.Intensity *= keep
		if c.Intensity < fadeFloor {
			*c = Cell{}
		}
	}
}

// Stamp writes r at full or partial intensity. Glyphs always win over line
// dots, and a brighter dot wins over a dimmer one.
func (g *Grid) Stamp(col, row int, r rune, intensity float64, glyph bool) {
	if !g.inside(col, row) {
		return
	}
	c := &g.cells[row*g.Cols+col]
	if !glyph && c.Glyph && c.Intensity >= intensity {
		return
	}
	if glyph || intensity >= c.Intensity {
		*c = Cell{Rune: r, Intensity: intensity, Glyph: glyph}
	}
}

// DrawConnection rasterizes a connection line with its opacity.
func (g *Grid) DrawConnection(line flock.Connection) {
	c0, r0, ok0 := g.CellAt(line.From.X, line.From.Y)
	c1, r1, ok1 := g.CellAt(line.To.X, line.To.Y)
	if !ok0 || !ok1 {
		return
	}
	Line(c0, r0, c1, r1, func(col, row int) {
		g.Stamp(col, row, lineRune, line.Opacity, false)
	})
}

// DrawBoids stamps every glyph at full intensity.
func (g *Grid) DrawBoids(boids []flock.Boid) {
	for _, b := range boids {
		if col, row, ok := g.CellAt(b.Pos.X, b.Pos.Y); ok {
			g.Stamp(col, row, b.Glyph, 1, true)
		}
	}
}

// Line calls plot for every cell on the segment, Bresenham style.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
