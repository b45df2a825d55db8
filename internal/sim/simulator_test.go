package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/particlebox/internal/ensemble"
)

func newManager(t *testing.T, n int) *ensemble.Manager {
	t.Helper()
	cfg := ensemble.DefaultConfig()
	cfg.Seed = 1
	m, err := ensemble.New(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.Simulate(n)
	return m
}

func TestRunnerRun(t *testing.T) {
	r := New(newManager(t, 5))

	result, err := r.Run(context.Background(), Config{Ticks: 10, Record: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.TicksTaken != 10 {
		t.Errorf("expected 10 ticks, got %d", result.TicksTaken)
	}
	for i, f := range result.Frames {
		if f.Tick != i {
			t.Errorf("frame %d has tick %d", i, f.Tick)
		}
		if len(f.Particles) != 5 || len(f.Handles) != 5 {
			t.Errorf("frame %d has %d particles", i, len(f.Particles))
		}
	}
}

func TestRunnerNoRecord(t *testing.T) {
	r := New(newManager(t, 3))

	result, err := r.Run(context.Background(), Config{Ticks: 20})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(result.Frames))
	}
	if result.TicksTaken != 20 {
		t.Errorf("expected 20 ticks, got %d", result.TicksTaken)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(newManager(t, 1))

	for _, ticks := range []int{0, -5} {
		if _, err := r.Run(context.Background(), Config{Ticks: ticks}); err == nil {
			t.Errorf("ticks=%d: expected error, got nil", ticks)
		}
	}
}

func TestRunnerCanceled(t *testing.T) {
	r := New(newManager(t, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Ticks: 100, Record: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.TicksTaken != 0 {
		t.Errorf("expected no ticks after cancel, got %d", result.TicksTaken)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string    { return "count" }
func (c *countMetric) Observe(f Frame) { c.count++ }
func (c *countMetric) Value() float64  { return float64(c.count) }
func (c *countMetric) Reset()          { c.count = 0 }

type tickObserver struct {
	ticks []int
}

func (o *tickObserver) OnTick(f Frame) { o.ticks = append(o.ticks, f.Tick) }

func TestRunnerMetricsAndObservers(t *testing.T) {
	r := New(newManager(t, 4))

	metric := &countMetric{}
	obs := &tickObserver{}
	r.AddMetric(metric)
	r.AddObserver(obs)

	result, err := r.Run(context.Background(), Config{Ticks: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := result.Metrics["count"]; !ok || v != 10 {
		t.Errorf("expected count metric 10, got %v (present=%v)", v, ok)
	}
	if len(obs.ticks) != 10 || obs.ticks[0] != 1 || obs.ticks[9] != 10 {
		t.Errorf("unexpected observed ticks: %v", obs.ticks)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	r := New(newManager(t, 2))

	seen := 0
	err := r.RunWithCallback(context.Background(), Config{Ticks: 100}, func(f Frame) bool {
		seen++
		return f.Tick < 7
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if seen != 7 {
		t.Errorf("expected callback 7 times, got %d", seen)
	}
}

func TestBatchRun(t *testing.T) {
	b := NewBatch(ensemble.DefaultConfig(), 6, 3, 100, func() []Metric {
		return []Metric{&countMetric{}}
	})

	results, err := b.Run(context.Background(), Config{Ticks: 5, Record: true})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Metrics["count"] != 5 {
			t.Errorf("run %d: count = %v", i, res.Metrics["count"])
		}
	}
	if results[0].Frames[0].Particles[0] == results[1].Frames[0].Particles[0] {
		t.Error("different seeds produced identical first particle")
	}
}

func TestBatchInvalidConfig(t *testing.T) {
	cfg := ensemble.DefaultConfig()
	cfg.MinRadius = 0
	if _, err := NewBatch(cfg, 1, 2, 0, nil).Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("expected error for invalid ensemble config")
	}
}
