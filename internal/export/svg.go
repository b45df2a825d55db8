// Package export renders recorded frames as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/particle"
	"github.com/san-kum/particlebox/internal/sim"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, b particle.Bounds) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="%s"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466" stroke-width="2"/>
`, b.Width(), b.Height(), b.XMin, b.YMin, b.Width(), b.Height(),
		b.XMin, b.YMin, background,
		b.XMin, b.YMin, b.Width(), b.Height()))
}

// FrameSVG draws the container and every particle of f in container
// coordinates, filled with its speed color.
func FrameSVG(b particle.Bounds, f sim.Frame, colorScale float64) string {
	var sb strings.Builder
	header(&sb, b)

	sb.WriteString("<g>\n")
	for _, p := range f.Particles {
		c := ensemble.SpeedColor(p.Speed(), colorScale)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#%02x%02x%02x"/>
`, p.Pos.X, p.Pos.Y, p.Radius, c.R, c.G, c.B))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectorySVG traces the center of one particle through frames. Frames
// where the handle is absent break the path.
func TrajectorySVG(b particle.Bounds, frames []sim.Frame, h ensemble.Handle, stroke string) string {
	var sb strings.Builder
	header(&sb, b)

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
	pen := false
	for _, f := range frames {
		pos, ok := positionOf(f, h)
		if !ok {
			pen = false
			continue
		}
		cmd := "L"
		if !pen {
			cmd = "M"
			pen = true
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, pos.X, pos.Y))
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func positionOf(f sim.Frame, h ensemble.Handle) (particle.Vec2, bool) {
	for i, fh := range f.Handles {
		if fh == h && i < len(f.Particles) {
			return f.Particles[i].Pos, true
		}
	}
	return particle.Vec2{}, false
}
