package viz

import (
	"strings"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid addressed in Braille sub-pixels, two per
// column and four per row.
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
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// project maps (s, i) into sub-pixel space, S along x and I along y
// with the origin at the bottom left.
func (c *Canvas) project(s, i, maxI float64) (int, int) {
	w, h := c.Width*2-1, c.Height*4-1
	x := int(s * float64(w))
	y := h - int(i/maxI*float64(h))
	return x, y
}

// DrawPhase connects consecutive (S, I) points. S spans [0, 1]; I is
// scaled to the largest value in samples.
func (c *Canvas) DrawPhase(samples []dynamo.Sample) {
	if len(samples) == 0 {
		return
	}
	maxI := 0.0
	for _, s := range samples {
		maxI = max(maxI, s.I)
	}
	if maxI == 0 {
		maxI = 1
	}

	px, py := c.project(samples[0].S, samples[0].I, maxI)
	c.Set(px, py)
	for _, s := range samples[1:] {
		x, y := c.project(s.S, s.I, maxI)
		c.DrawLine(px, py, x, y)
		px, py = x, y
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
