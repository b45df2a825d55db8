package metrics

import (
	"github.com/san-kum/particlebox/internal/particle"
	"github.com/san-kum/particlebox/internal/sim"
)

// Containment is the fraction of frames in which every particle clears all
// walls by at least its radius plus the margin. Velocity is reflected before
// the move, so a frame can still end just past the margin.
type Containment struct {
	name       string
	bounds     particle.Bounds
	violations int
	samples    int
}

func NewContainment(b particle.Bounds) *Containment {
	return &Containment{
		name:   "containment",
		bounds: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	for i := range f.Particles {
		p := &f.Particles[i]
		if !c.bounds.Inside(p.Pos, p.Radius) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
