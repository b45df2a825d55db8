package sim

import (
	"fmt"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/particle"
)

// Frame is a snapshot of the ensemble after a tick. Tick 0 is the initial
// state before any update.
type Frame struct {
	Tick      int
	Stats     ensemble.Stats
	Handles   []ensemble.Handle
	Particles []particle.Particle
}

func (f Frame) KineticEnergy() float64 {
	total := 0.0
	for i := range f.Particles {
		total += f.Particles[i].KineticEnergy()
	}
	return total
}

func (f Frame) MeanSpeed() float64 {
	if len(f.Particles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Particles {
		sum += f.Particles[i].Speed()
	}
	return sum / float64(len(f.Particles))
}

func (f Frame) IsValid() bool {
	for i := range f.Particles {
		if !f.Particles[i].IsValid() {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

type Config struct {
	Ticks         int
	Record        bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Ticks:         600,
		Record:        true,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	TicksTaken int
	Errors     []error
}

type TickError struct {
	Tick    int
	Message string
}

func (e TickError) Error() string {
	return fmt.Sprintf("tick %d: %s", e.Tick, e.Message)
}
