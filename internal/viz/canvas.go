package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
const blank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid. Each cell may carry a tint; the last Plot
// into a cell wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	tint          [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		tint:   make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.tint[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// DotsWide and DotsHigh give the canvas size in dots.
func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

// Set lights the dot at (x, y) without changing the cell tint.
func (c *Canvas) Set(x, y int) {
	c.Plot(x, y, "")
}

// Plot lights the dot at (x, y) and tints its cell. An empty color leaves
// the tint as is.
func (c *Canvas) Plot(x, y int, col lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] |= rune(pixelMap[y%4][x%2])
	if col != "" {
		c.tint[row][cell] = col
	}
}

func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.tint[i][j] = ""
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col lipgloss.Color) {
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
		c.Plot(x0, y0, col)
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

func (c *Canvas) DrawRect(x0, y0, x1, y1 int, col lipgloss.Color) {
	c.DrawLine(x0, y0, x1, y0, col)
	c.DrawLine(x1, y0, x1, y1, col)
	c.DrawLine(x1, y1, x0, y1, col)
	c.DrawLine(x0, y1, x0, y0, col)
}

// DrawCircle draws the outline with the midpoint algorithm. A radius below
// one plots a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int, col lipgloss.Color) {
	if r < 1 {
		c.Plot(cx, cy, col)
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		c.Plot(cx+x, cy+y, col)
		c.Plot(cx+y, cy+x, col)
		c.Plot(cx-y, cy+x, col)
		c.Plot(cx-x, cy+y, col)
		c.Plot(cx-x, cy-y, col)
		c.Plot(cx-y, cy-x, col)
		c.Plot(cx+y, cy-x, col)
		c.Plot(cx+x, cy-y, col)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// String renders the grid, tinted cells through lipgloss.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if col := c.tint[i][j]; col != "" && r != blank {
				b.WriteString(lipgloss.NewStyle().Foreground(col).Render(string(r)))
				continue
			}
			b.WriteRune(r)
		}
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
