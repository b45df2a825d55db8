package config

import (
	"sort"

	"github.com/san-kum/particlebox/internal/ensemble"
)

func preset(particles int, mutate func(*ensemble.Config)) *Config {
	cfg := DefaultConfig()
	cfg.Run.Particles = particles
	if mutate != nil {
		mutate(&cfg.Ensemble)
	}
	return cfg
}

var Presets = map[string]*Config{
	"default": preset(DefaultParticles, nil),

	"calm": preset(8, func(e *ensemble.Config) {
		e.MinSpeed, e.MaxSpeed = 1, 3
	}),

	"crowded": preset(ensemble.DefaultMaxParticles, func(e *ensemble.Config) {
		e.MinRadius, e.MaxRadius = 8, 12
		e.CapBulk = true
	}),

	"billiards": preset(12, func(e *ensemble.Config) {
		e.MinMass, e.MaxMass = 16, 16
		e.MinRadius, e.MaxRadius = 14, 14
		e.Pairwise = true
		e.Corner = "per_axis"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
