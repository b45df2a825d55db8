package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/particlebox/internal/sim"
)

// Histogram counts samples in equal-width bins over [Lo, Hi].
type Histogram struct {
	Lo, Hi float64
	Counts []int
}

func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// SpeedHistogram bins every particle speed of every frame. The range is the
// observed min and max; a degenerate range widens to one unit.
func SpeedHistogram(frames []sim.Frame, bins int) Histogram {
	if bins <= 0 {
		bins = 1
	}
	h := Histogram{Counts: make([]int, bins)}

	first := true
	for _, f := range frames {
		for _, p := range f.Particles {
			s := p.Speed()
			if first {
				h.Lo, h.Hi = s, s
				first = false
			}
			h.Lo, h.Hi = min(h.Lo, s), max(h.Hi, s)
		}
	}
	if first {
		return h
	}
	if h.Hi == h.Lo {
		h.Hi = h.Lo + 1
	}

	width := (h.Hi - h.Lo) / float64(bins)
	for _, f := range frames {
		for _, p := range f.Particles {
			i := int((p.Speed() - h.Lo) / width)
			h.Counts[min(i, bins-1)]++
		}
	}
	return h
}

// ASCII draws one horizontal bar per bin, scaled so the largest bin spans
// width characters.
func (h Histogram) ASCII(width int) string {
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}
	if peak == 0 || len(h.Counts) == 0 {
		return ""
	}

	step := (h.Hi - h.Lo) / float64(len(h.Counts))
	var sb strings.Builder
	for i, c := range h.Counts {
		lo := h.Lo + float64(i)*step
		bar := strings.Repeat("█", c*width/peak)
		sb.WriteString(fmt.Sprintf("%7.2f-%-7.2f │%s %d\n", lo, lo+step, bar, c))
	}
	return sb.String()
}
