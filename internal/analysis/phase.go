package analysis

import (
	"strings"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs a position coordinate with the matching velocity
// component for one particle. Wall reflections show up as jumps in Y.
type PhasePortrait2D struct {
	Handle ensemble.Handle
	Axis   string
	Points []Point
}

// PhasePortrait collects (x, vx) or (y, vy) for handle h. Axis is "x" or
// "y"; anything else returns nil. Frames without h are skipped.
func PhasePortrait(frames []sim.Frame, h ensemble.Handle, axis string) *PhasePortrait2D {
	if axis != "x" && axis != "y" {
		return nil
	}

	portrait := &PhasePortrait2D{Handle: h, Axis: axis}
	for _, f := range frames {
		for i, fh := range f.Handles {
			if fh != h || i >= len(f.Particles) {
				continue
			}
			p := f.Particles[i]
			if axis == "x" {
				portrait.Points = append(portrait.Points, Point{p.Pos.X, p.Vel.X})
			} else {
				portrait.Points = append(portrait.Points, Point{p.Pos.Y, p.Vel.Y})
			}
			break
		}
	}
	return portrait
}

// PhasePortraitToASCII plots the portrait on a width x height character grid
// with 10% padding, drawing the zero-velocity axis when visible.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
