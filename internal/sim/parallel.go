package sim

import (
	"context"
	"sync"

	"github.com/san-kum/particlebox/internal/ensemble"
)

// Batch runs independent ensembles that differ only in seed. Each run gets
// its own Manager owned by its own goroutine.
type Batch struct {
	cfg       ensemble.Config
	particles int
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewBatch(cfg ensemble.Config, particles, numRuns int, seedStart int64, metrics func() []Metric) *Batch {
	return &Batch{cfg: cfg, particles: particles, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (b *Batch) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, b.numRuns)
	errs := make([]error, b.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < b.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			ecfg := b.cfg
			ecfg.Seed = b.seedStart + int64(idx)

			mgr, err := ensemble.New(ecfg)
			if err != nil {
				errs[idx] = err
				return
			}
			mgr.Simulate(b.particles)

			r := New(mgr)
			if b.metrics != nil {
				for _, m := range b.metrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
