package ensemble

import (
	"fmt"

	"github.com/san-kum/particlebox/internal/particle"
)

const (
	DefaultMinSpeed     = 2
	DefaultMaxSpeed     = 10
	DefaultMinMass      = 12
	DefaultMaxMass      = 20
	DefaultMinRadius    = 12
	DefaultMaxRadius    = 20
	DefaultMinPos       = particle.DefaultMin + 25
	DefaultMaxPos       = particle.DefaultMax - 25
	DefaultMaxParticles = 30
	DefaultColorScale   = 20.0

	MinScale  = 1
	MaxScale  = 5
	ScaleStep = 2
)

// Config holds every tunable of an ensemble. Container walls are
// [XMin, XMax] x [YMin, YMax]; WallMargin is added to each particle's radius
// when testing for wall contact.
type Config struct {
	MinSpeed     int     `yaml:"min_speed" json:"min_speed"`
	MaxSpeed     int     `yaml:"max_speed" json:"max_speed"`
	MinMass      int     `yaml:"min_mass" json:"min_mass"`
	MaxMass      int     `yaml:"max_mass" json:"max_mass"`
	MinRadius    int     `yaml:"min_radius" json:"min_radius"`
	MaxRadius    int     `yaml:"max_radius" json:"max_radius"`
	MinPos       float64 `yaml:"min_pos" json:"min_pos"`
	MaxPos       float64 `yaml:"max_pos" json:"max_pos"`
	MaxParticles int     `yaml:"max_particles" json:"max_particles"`
	WallMargin   float64 `yaml:"wall_margin" json:"wall_margin"`
	ColorScale   float64 `yaml:"color_scale" json:"color_scale"`

	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`

	// CapBulk makes Simulate stop at MaxParticles like Add does.
	CapBulk bool `yaml:"cap_bulk" json:"cap_bulk"`
	// Corner is "precedence" (default) or "per_axis".
	Corner string `yaml:"corner" json:"corner"`
	// Pairwise enables elastic particle-particle collisions.
	Pairwise bool  `yaml:"pairwise" json:"pairwise"`
	Seed     int64 `yaml:"seed" json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		MinSpeed:     DefaultMinSpeed,
		MaxSpeed:     DefaultMaxSpeed,
		MinMass:      DefaultMinMass,
		MaxMass:      DefaultMaxMass,
		MinRadius:    DefaultMinRadius,
		MaxRadius:    DefaultMaxRadius,
		MinPos:       DefaultMinPos,
		MaxPos:       DefaultMaxPos,
		MaxParticles: DefaultMaxParticles,
		WallMargin:   particle.DefaultMargin,
		ColorScale:   DefaultColorScale,
		XMin:         particle.DefaultMin,
		XMax:         particle.DefaultMax,
		YMin:         particle.DefaultMin,
		YMax:         particle.DefaultMax,
		Corner:       "precedence",
	}
}

// Bounds returns the container walls including the wall margin.
func (c Config) Bounds() particle.Bounds {
	return particle.Bounds{
		XMin:   c.XMin,
		XMax:   c.XMax,
		YMin:   c.YMin,
		YMax:   c.YMax,
		Margin: c.WallMargin,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinSpeed < 0 || c.MaxSpeed < c.MinSpeed:
		return fmt.Errorf("%w: speed range [%d, %d]", ErrInvalidConfig, c.MinSpeed, c.MaxSpeed)
	case c.MinMass <= 0 || c.MaxMass < c.MinMass:
		return fmt.Errorf("%w: mass range [%d, %d]", ErrInvalidConfig, c.MinMass, c.MaxMass)
	case c.MinRadius <= 0 || c.MaxRadius < c.MinRadius:
		return fmt.Errorf("%w: radius range [%d, %d]", ErrInvalidConfig, c.MinRadius, c.MaxRadius)
	case c.MaxPos < c.MinPos:
		return fmt.Errorf("%w: position range [%.1f, %.1f]", ErrInvalidConfig, c.MinPos, c.MaxPos)
	case c.MaxParticles < 0:
		return fmt.Errorf("%w: max particles %d", ErrInvalidConfig, c.MaxParticles)
	case c.WallMargin < 0:
		return fmt.Errorf("%w: wall margin %.1f", ErrInvalidConfig, c.WallMargin)
	case c.ColorScale < 0:
		return fmt.Errorf("%w: color scale %.1f", ErrInvalidConfig, c.ColorScale)
	case c.XMax <= c.XMin || c.YMax <= c.YMin:
		return fmt.Errorf("%w: empty container", ErrInvalidConfig)
	}
	if _, err := particle.ParseCornerPolicy(c.Corner); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ScaleValue maps a 1..5 scale onto lo, lo+2, ..., lo+8.
func ScaleValue(lo, scale int) int {
	return lo + ScaleStep*(scale-1)
}

func validScale(s int) bool {
	return s >= MinScale && s <= MaxScale
}
