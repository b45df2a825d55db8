package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/particlebox/internal/ensemble"
)

// Runner is the headless frame loop: it calls Update once per tick and
// feeds every resulting frame to metrics and observers.
type Runner struct {
	mgr       *ensemble.Manager
	metrics   []Metric
	observers []Observer
}

func New(mgr *ensemble.Manager) *Runner {
	return &Runner{
		mgr:       mgr,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Manager() *ensemble.Manager { return r.mgr }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.Record {
		result.Frames = make([]Frame, 0, cfg.Ticks+1)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	frame := r.snapshot(0, ensemble.Stats{})
	if cfg.Record {
		result.Frames = append(result.Frames, frame)
	}

	for tick := 1; tick <= cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		stats := r.mgr.Update()
		frame = r.snapshot(tick, stats)

		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, obs := range r.observers {
			obs.OnTick(frame)
		}

		if cfg.ValidateState && !frame.IsValid() {
			result.Errors = append(result.Errors, TickError{Tick: tick, Message: "invalid particle state (NaN/Inf)"})
			break
		}

		result.TicksTaken++
		if cfg.Record {
			result.Frames = append(result.Frames, frame)
		}
	}

	r.collect(result)
	return result, nil
}

// RunWithCallback steps until the callback returns false, the context is
// done or cfg.Ticks is reached. Nothing is recorded.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for tick := 1; tick <= cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := r.snapshot(tick, r.mgr.Update())
		if cfg.ValidateState && !frame.IsValid() {
			return TickError{Tick: tick, Message: "invalid particle state (NaN/Inf)"}
		}
		if !callback(frame) {
			return nil
		}
	}
	return nil
}

func (r *Runner) snapshot(tick int, stats ensemble.Stats) Frame {
	return Frame{
		Tick:      tick,
		Stats:     stats,
		Handles:   r.mgr.Handles(),
		Particles: r.mgr.Particles(),
	}
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	return nil
}
