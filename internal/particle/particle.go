package particle

import "fmt"

// Wall reports which class of wall a collision check resolved.
type Wall int

const (
	WallNone Wall = iota
	WallVertical
	WallHorizontal
	WallCorner
)

func (w Wall) String() string {
	switch w {
	case WallVertical:
		return "vertical"
	case WallHorizontal:
		return "horizontal"
	case WallCorner:
		return "corner"
	default:
		return "none"
	}
}

// CornerPolicy decides how a frame that trips both wall axes is resolved.
type CornerPolicy int

const (
	// CornerPrecedence resolves only the vertical wall.
	CornerPrecedence CornerPolicy = iota
	// CornerPerAxis resolves the vertical wall, then the horizontal wall.
	CornerPerAxis
)

func (c CornerPolicy) String() string {
	if c == CornerPerAxis {
		return "per_axis"
	}
	return "precedence"
}

// ParseCornerPolicy maps a config name to a CornerPolicy.
func ParseCornerPolicy(name string) (CornerPolicy, error) {
	switch name {
	case "", "precedence":
		return CornerPrecedence, nil
	case "per_axis":
		return CornerPerAxis, nil
	}
	return CornerPrecedence, fmt.Errorf("unknown corner policy: %s", name)
}

var (
	wallTangentVertical   = Vec2{0, 1}
	wallTangentHorizontal = Vec2{1, 0}
)

// Particle is a circular body with unit-tick kinematics.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Mass   float64
}

func New(pos, vel Vec2, radius, mass float64) *Particle {
	return &Particle{Pos: pos, Vel: vel, Radius: radius, Mass: mass}
}

// Position returns the center of the particle.
func (p *Particle) Position() (float64, float64) {
	return p.Pos.X, p.Pos.Y
}

func (p *Particle) Speed() float64 { return p.Vel.Norm() }

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Vel.Dot(p.Vel)
}

func (p *Particle) Momentum() Vec2 { return p.Vel.Scale(p.Mass) }

// CheckWallCollision reflects the velocity if the particle touches a wall
// and reports which wall class was resolved. Position is not changed.
func (p *Particle) CheckWallCollision(b Bounds, corner CornerPolicy) Wall {
	c := b.Clearance(p.Pos, p.Radius)
	vertical, horizontal := c.Vertical(), c.Horizontal()

	switch {
	case vertical && horizontal && corner == CornerPerAxis:
		p.Vel = reflect(p.Vel, wallTangentVertical)
		p.Vel = reflect(p.Vel, wallTangentHorizontal)
		return WallCorner
	case vertical:
		p.Vel = reflect(p.Vel, wallTangentVertical)
		return WallVertical
	case horizontal:
		p.Vel = reflect(p.Vel, wallTangentHorizontal)
		return WallHorizontal
	}
	return WallNone
}

// UpdatePosition resolves wall contact, then advances one unit tick.
func (p *Particle) UpdatePosition(b Bounds, corner CornerPolicy) Wall {
	w := p.CheckWallCollision(b, corner)
	p.Advance()
	return w
}

// Advance moves the particle by its velocity without any wall check.
func (p *Particle) Advance() {
	p.Pos = p.Pos.Add(p.Vel)
}

func (p *Particle) IsValid() bool {
	return p.Pos.IsValid() && p.Vel.IsValid() && p.Radius > 0 && p.Mass > 0
}

func (p *Particle) Clone() *Particle {
	c := *p
	return &c
}

// reflect negates a head-on velocity and rotates any other.
func reflect(v, tangent Vec2) Vec2 {
	if v.Dot(tangent) == 0 {
		return v.Neg()
	}
	return v.Rotate()
}
