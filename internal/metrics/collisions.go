package metrics

import (
	"github.com/san-kum/particlebox/internal/particle"
	"github.com/san-kum/particlebox/internal/sim"
)

// WallHits is the mean number of wall reflections per tick.
type WallHits struct {
	hits    int
	samples int
}

func NewWallHits() *WallHits { return &WallHits{} }

func (w *WallHits) Name() string { return "wall_hits" }

func (w *WallHits) Observe(f sim.Frame) {
	w.hits += f.Stats.WallHits()
	w.samples++
}

func (w *WallHits) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.hits) / float64(w.samples)
}

func (w *WallHits) Reset() {
	w.hits = 0
	w.samples = 0
}

// Contacts is the total number of pairwise contacts resolved.
type Contacts struct {
	total int
}

func NewContacts() *Contacts { return &Contacts{} }

func (c *Contacts) Name() string        { return "contacts" }
func (c *Contacts) Observe(f sim.Frame) { c.total += f.Stats.Contacts }
func (c *Contacts) Value() float64      { return float64(c.total) }
func (c *Contacts) Reset()              { c.total = 0 }

// MeanSpeed averages the mean particle speed over every observed frame.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(f sim.Frame) {
	m.sum += f.MeanSpeed()
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// Default returns the metric set used by the CLI runner.
func Default(b particle.Bounds) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewContainment(b),
		NewWallHits(),
		NewContacts(),
		NewMeanSpeed(),
	}
}
