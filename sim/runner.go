package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/routesim/routesim/sim/stats"
	"github.com/routesim/routesim/sim/trace"
)

// DefaultBatchSize is the number of trials drawn from one random stream.
const DefaultBatchSize = 1000

// RunConfig controls how trials are spread over workers. Results depend on
// Seed and BatchSize only; Workers changes wall time, never the sample.
type RunConfig struct {
	Seed      int64
	Workers   int // <= 0 means runtime.NumCPU()
	BatchSize int // <= 0 means DefaultBatchSize
}

func (c RunConfig) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c RunConfig) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// Sample runs n independent trials of s and returns their results in batch
// order. Batch b draws from StreamFor(seed, SubsystemBatch(name, b)), so the
// returned slice is identical for any worker count.
func Sample(ctx context.Context, s Simulator, n int, cfg RunConfig) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("trial count must be positive, got %d", n)
	}
	key := NewSimulationKey(cfg.Seed)
	size := cfg.batchSize()
	batches := (n + size - 1) / size

	logrus.Debugf("sampling %d trials of %s in %d batches on %d workers",
		n, s.Name(), batches, cfg.workers())

	results := make([]int, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for b := 0; b < batches; b++ {
		b := b // per-iteration copy: go.mod targets go 1.21 (pre-1.22 loop semantics)
		lo := b * size
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := StreamFor(key, SubsystemBatch(s.Name(), b))
			for i := lo; i < hi; i++ {
				results[i] = int(s.Simulate(src))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sampling %s: %w", s.Name(), err)
	}
	return results, nil
}

// RunTrials samples n trials of s and bins them one frame wide.
func RunTrials(ctx context.Context, s Simulator, n int, cfg RunConfig) (*stats.Distribution, error) {
	results, err := Sample(ctx, s, n, cfg)
	if err != nil {
		return nil, err
	}
	d, err := stats.New(results, 1)
	if err != nil {
		return nil, err
	}
	logrus.Infof("%s: %d trials, mean %.1f frames, stdev %.1f", s.Name(), d.Total(), d.Mean(), d.Stdev())
	return d, nil
}

// TraceSample runs one traced trial on the region's trace stream of rng.
// Successive calls continue the same stream, so n calls on a fresh rng
// replay the first n trials of SubsystemTrace(s.Name()).
func TraceSample(s Simulator, rng *PartitionedRNG) (Frame, *trace.Trial) {
	return Trace(s, rng.ForSubsystem(SubsystemTrace(s.Name())))
}
