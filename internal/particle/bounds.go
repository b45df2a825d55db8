package particle

// Default container geometry.
const (
	DefaultMin    = 75.0
	DefaultMax    = 525.0
	DefaultMargin = 5.0
)

// Bounds is the axis-aligned container the particles bounce inside.
// Margin is extra clearance added to a particle's radius when testing walls.
type Bounds struct {
	XMin   float64 `yaml:"x_min" json:"x_min"`
	XMax   float64 `yaml:"x_max" json:"x_max"`
	YMin   float64 `yaml:"y_min" json:"y_min"`
	YMax   float64 `yaml:"y_max" json:"y_max"`
	Margin float64 `yaml:"margin" json:"margin"`
}

func DefaultBounds() Bounds {
	return Bounds{
		XMin:   DefaultMin,
		XMax:   DefaultMax,
		YMin:   DefaultMin,
		YMax:   DefaultMax,
		Margin: DefaultMargin,
	}
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// Clearance holds the signed distances from a particle to each wall, already
// reduced by margin and radius. A value <= 0 means the wall is touched.
type Clearance struct {
	Left, Right, Top, Bottom float64
}

// Clearance computes the signed wall clearances for a body of radius r at p.
func (b Bounds) Clearance(p Vec2, r float64) Clearance {
	return Clearance{
		Left:   p.X - (b.XMin + b.Margin + r),
		Right:  (b.XMax - b.Margin - r) - p.X,
		Top:    p.Y - (b.YMin + b.Margin + r),
		Bottom: (b.YMax - b.Margin - r) - p.Y,
	}
}

func (c Clearance) Vertical() bool   { return c.Left <= 0 || c.Right <= 0 }
func (c Clearance) Horizontal() bool { return c.Top <= 0 || c.Bottom <= 0 }

// Inside reports whether a body of radius r at p clears every wall.
func (b Bounds) Inside(p Vec2, r float64) bool {
	c := b.Clearance(p, r)
	return !c.Vertical() && !c.Horizontal()
}
