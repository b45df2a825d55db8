// Package automation runs scripted scenarios and parameter sweeps against
// headless ensembles.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/san-kum/particlebox/internal/command"
	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a timeline of commands applied to one ensemble.
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Ticks       int             `yaml:"ticks"`
	Ensemble    ensemble.Config `yaml:"ensemble"`
	Steps       []Step          `yaml:"steps"`
}

// Step runs Do after tick At has been advanced. Steps at tick 0 run before
// the first update.
type Step struct {
	At int    `yaml:"at"`
	Do string `yaml:"do"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario := Scenario{Ensemble: ensemble.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", s.Ticks)
	}
	if err := s.Ensemble.Validate(); err != nil {
		return err
	}
	for i, st := range s.Steps {
		if st.At < 0 || st.At > s.Ticks {
			return fmt.Errorf("step %d: tick %d outside 0..%d", i+1, st.At, s.Ticks)
		}
		if _, err := command.Parse(st.Do); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

type timeline struct {
	mgr   *ensemble.Manager
	steps []Step
	next  int
	log   io.Writer
}

func (t *timeline) applyThrough(tick int) {
	for t.next < len(t.steps) && t.steps[t.next].At <= tick {
		st := t.steps[t.next]
		t.next++

		cmd, err := command.Parse(st.Do)
		if err == nil {
			err = cmd.Apply(t.mgr)
		}
		if err != nil {
			fmt.Fprintf(t.log, "tick %d: %s: %v\n", st.At, st.Do, err)
			continue
		}
		fmt.Fprintf(t.log, "tick %d: %s (%d particles)\n", st.At, st.Do, t.mgr.Len())
	}
}

func (t *timeline) OnTick(f sim.Frame) { t.applyThrough(f.Tick) }

// Run builds a fresh ensemble and plays the scenario on it. Command
// outcomes are written to log; no-op commands are reported, not fatal.
func (s *Scenario) Run(ctx context.Context, metrics []sim.Metric, record bool, log io.Writer) (*sim.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = io.Discard
	}

	mgr, err := ensemble.New(s.Ensemble)
	if err != nil {
		return nil, err
	}

	steps := append([]Step(nil), s.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	tl := &timeline{mgr: mgr, steps: steps, log: log}
	tl.applyThrough(0)

	r := sim.New(mgr)
	for _, m := range metrics {
		r.AddMetric(m)
	}
	r.AddObserver(tl)

	return r.Run(ctx, sim.Config{Ticks: s.Ticks, Record: record, ValidateState: true})
}

// ParameterSweep runs one ensemble per value of a config parameter, evenly
// spaced from Min to Max.
type ParameterSweep struct {
	Base      ensemble.Config
	Param     string
	Min, Max  int
	NumSteps  int
	Particles int
	Ticks     int
	Metrics   func() []sim.Metric
}

type SweepResult struct {
	Value   int
	Metrics map[string]float64
}

// SweepParams lists the parameters SetParam understands.
var SweepParams = []string{"max_speed", "min_speed", "max_radius", "min_radius", "max_mass", "min_mass", "max_particles", "wall_margin"}

// SetParam assigns an integer parameter by its YAML name.
func SetParam(cfg *ensemble.Config, name string, v int) error {
	switch name {
	case "max_speed":
		cfg.MaxSpeed = v
	case "min_speed":
		cfg.MinSpeed = v
	case "max_radius":
		cfg.MaxRadius = v
	case "min_radius":
		cfg.MinRadius = v
	case "max_mass":
		cfg.MaxMass = v
	case "min_mass":
		cfg.MinMass = v
	case "max_particles":
		cfg.MaxParticles = v
	case "wall_margin":
		cfg.WallMargin = float64(v)
	default:
		return fmt.Errorf("unknown sweep parameter %q (available: %v)", name, SweepParams)
	}
	return nil
}

func (sw *ParameterSweep) Values() []int {
	if sw.NumSteps <= 1 {
		return []int{sw.Min}
	}
	out := make([]int, sw.NumSteps)
	for i := range out {
		out[i] = sw.Min + (sw.Max-sw.Min)*i/(sw.NumSteps-1)
	}
	return out
}

func (sw *ParameterSweep) Run(ctx context.Context, progress io.Writer) ([]SweepResult, error) {
	if progress == nil {
		progress = io.Discard
	}
	values := sw.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := sw.Base
		if err := SetParam(&cfg, sw.Param, v); err != nil {
			return nil, err
		}
		mgr, err := ensemble.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%d: %w", sw.Param, v, err)
		}
		mgr.Simulate(sw.Particles)

		r := sim.New(mgr)
		if sw.Metrics != nil {
			for _, m := range sw.Metrics() {
				r.AddMetric(m)
			}
		}
		res, err := r.Run(ctx, sim.Config{Ticks: sw.Ticks, ValidateState: true})
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{Value: v, Metrics: res.Metrics})
		fmt.Fprintf(progress, "sweep %d/%d: %s=%d\n", i+1, len(values), sw.Param, v)
	}
	return results, nil
}
