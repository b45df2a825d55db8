// Package walk generates lattice random walks that approximate a Wiener
// process, used to illustrate Brownian motion next to the particle box.
package walk

import (
	"fmt"
	"math"
	"math/rand"
)

// Path is a 3D walk sampled once per step.
type Path struct {
	X, Y, Z []float64
}

func (p Path) Len() int { return len(p.X) }

// Generate walks steps points starting at (1, 1, 1). Each step moves every
// axis independently by -1, 0 or +1, scaled by 1/sqrt(steps).
func Generate(rng *rand.Rand, steps int) (Path, error) {
	if steps <= 0 {
		return Path{}, fmt.Errorf("steps must be positive, got %d", steps)
	}

	p := Path{
		X: make([]float64, steps),
		Y: make([]float64, steps),
		Z: make([]float64, steps),
	}
	p.X[0], p.Y[0], p.Z[0] = 1, 1, 1

	scale := 1 / math.Sqrt(float64(steps))
	for i := 1; i < steps; i++ {
		p.X[i] = p.X[i-1] + latticeStep(rng)*scale
		p.Y[i] = p.Y[i-1] + latticeStep(rng)*scale
		p.Z[i] = p.Z[i-1] + latticeStep(rng)*scale
	}
	return p, nil
}

func latticeStep(rng *rand.Rand) float64 {
	return float64(rng.Intn(3) - 1)
}

// Displacement returns the distance between the first and last point.
func (p Path) Displacement() float64 {
	n := len(p.X) - 1
	if n < 1 {
		return 0
	}
	dx, dy, dz := p.X[n]-p.X[0], p.Y[n]-p.Y[0], p.Z[n]-p.Z[0]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
