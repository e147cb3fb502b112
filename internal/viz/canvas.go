package viz

import (
	"math"
	"strings"

	"github.com/san-kum/roversim/internal/analysis"
)

// Each cell is one braille rune holding a 2x4 dot block:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Patterns start at U+2800.
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid. Dot coordinates run 0..2*Width-1 across
// and 0..4*Height-1 down.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
	return c
}

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, pixelMap[y%4][x%2], true
}

// Set lights a dot. Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

// Lit reports whether a dot is set.
func (c *Canvas) Lit(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// DrawTrack draws a ground track of (north, east) points with north up and
// equal scale on both axes. The view spans at least minSpan meters so a
// rover at rest is not blown up to fill the canvas.
func (c *Canvas) DrawTrack(points []analysis.Point, minSpan float64) {
	if len(points) == 0 {
		return
	}
	minN, maxN, minE, maxE := analysis.Bounds(points)
	span := max(maxN-minN, maxE-minE, minSpan)
	cn, ce := (minN+maxN)/2, (minE+maxE)/2

	pw, ph := float64(c.Width*2-1), float64(c.Height*4-1)
	scale := min(pw, ph) / span
	toDot := func(p analysis.Point) (int, int) {
		x := pw/2 + (p.Y-ce)*scale
		y := ph/2 - (p.X-cn)*scale
		return int(math.Round(x)), int(math.Round(y))
	}

	x0, y0 := toDot(points[0])
	c.Set(x0, y0)
	for _, p := range points[1:] {
		x1, y1 := toDot(p)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
