// Package collision resolves contacts between pairs of particles.
package collision

import "github.com/san-kum/particlebox/internal/particle"

// Resolver adjusts velocities of touching particles. It must not move them.
// It returns the number of contacts it resolved.
type Resolver interface {
	Resolve(ps []*particle.Particle) int
}

// Elastic is a perfectly elastic resolver. Two particles are in contact
// when the distance between their centers is at most the sum of their
// radii. Only approaching pairs are resolved, so a pair that is still
// overlapping after the exchange is not bounced back together next frame.
type Elastic struct{}

func (Elastic) Resolve(ps []*particle.Particle) int {
	resolved := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if Collide(ps[i], ps[j]) {
				resolved++
			}
		}
	}
	return resolved
}

// Touching reports whether a and b overlap or touch.
func Touching(a, b *particle.Particle) bool {
	d := b.Pos.Sub(a.Pos)
	r := a.Radius + b.Radius
	return d.Dot(d) <= r*r
}

// Collide exchanges momentum between a and b along the contact normal,
// conserving total momentum and kinetic energy.
func Collide(a, b *particle.Particle) bool {
	if !Touching(a, b) {
		return false
	}

	d := b.Pos.Sub(a.Pos)
	dist := d.Norm()
	if dist == 0 {
		return false
	}
	n := d.Scale(1 / dist)

	vn := b.Vel.Sub(a.Vel).Dot(n)
	if vn >= 0 {
		return false
	}

	total := a.Mass + b.Mass
	a.Vel = a.Vel.Add(n.Scale(2 * b.Mass / total * vn))
	b.Vel = b.Vel.Sub(n.Scale(2 * a.Mass / total * vn))
	return true
}

// None never resolves anything.
type None struct{}

func (None) Resolve([]*particle.Particle) int { return 0 }
