package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/sim"
)

type ExportParticle struct {
	Handle ensemble.Handle `json:"handle"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	VX     float64         `json:"vx"`
	VY     float64         `json:"vy"`
	Radius float64         `json:"radius"`
	Mass   float64         `json:"mass"`
}

type ExportFrame struct {
	Tick          int              `json:"tick"`
	KineticEnergy float64          `json:"kinetic_energy"`
	Particles     []ExportParticle `json:"particles"`
}

type ExportData struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Seed     int64              `json:"seed"`
	Ticks    int                `json:"ticks"`
	Ensemble ensemble.Config    `json:"ensemble"`
	Metrics  map[string]float64 `json:"metrics"`
	Frames   []ExportFrame      `json:"frames"`
}

func NewExportData(meta *RunMetadata, frames []sim.Frame) ExportData {
	data := ExportData{
		ID:       meta.ID,
		Name:     meta.Name,
		Seed:     meta.Seed,
		Ticks:    meta.Ticks,
		Ensemble: meta.Ensemble,
		Metrics:  meta.Metrics,
		Frames:   make([]ExportFrame, len(frames)),
	}

	for i, f := range frames {
		ef := ExportFrame{
			Tick:          f.Tick,
			KineticEnergy: f.KineticEnergy(),
			Particles:     make([]ExportParticle, len(f.Particles)),
		}
		for j, p := range f.Particles {
			ep := ExportParticle{X: p.Pos.X, Y: p.Pos.Y, VX: p.Vel.X, VY: p.Vel.Y, Radius: p.Radius, Mass: p.Mass}
			if j < len(f.Handles) {
				ep.Handle = f.Handles[j]
			}
			ef.Particles[j] = ep
		}
		data.Frames[i] = ef
	}
	return data
}

// ExportJSON writes a run and its frames as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}
