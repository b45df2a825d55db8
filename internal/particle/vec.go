package particle

import "math"

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Neg() Vec2               { return Vec2{-v.X, -v.Y} }
func (v Vec2) Norm() float64           { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsValid() bool           { return isFinite(v.X) && isFinite(v.Y) }
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Norm() }

// Rotate returns (v.Y, -v.X), the swap-and-negate used for angled wall hits.
func (v Vec2) Rotate() Vec2 { return Vec2{v.Y, -v.X} }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
