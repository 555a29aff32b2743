package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/routesim/routesim/internal/store"
	"github.com/routesim/routesim/sim"
	"github.com/routesim/routesim/sim/stats"
	"github.com/routesim/routesim/sim/timing"
	"github.com/routesim/routesim/sim/trace"
)

// runOptions carries the run command's flags.
type runOptions struct {
	Region      string
	Trials      int
	Seed        int64
	Workers     int
	BatchSize   int
	TimingPath  string
	Recordings  string
	Best        bool
	Under       []string
	Between     []string
	ExportPath  string
	StorePath   string
	TraceTrials int
}

// window is a [Lo, Hi) query over total frames.
type window struct {
	Label string
	Lo    sim.Frame
	Hi    sim.Frame
}

// windowResult is a window answered by a distribution.
type windowResult struct {
	window
	Probability float64
	Margin      float64
}

func runSimulation(ctx context.Context, opts runOptions, out io.Writer) error {
	windows, err := parseWindows(opts.Under, opts.Between)
	if err != nil {
		return err
	}
	table, source, err := loadTable(opts.TimingPath, opts.Recordings, opts.Best)
	if err != nil {
		return err
	}
	s, err := sim.NewByName(opts.Region, table)
	if err != nil {
		return err
	}

	start := time.Now()
	d, err := sim.RunTrials(ctx, s, opts.Trials, sim.RunConfig{
		Seed:      opts.Seed,
		Workers:   opts.Workers,
		BatchSize: opts.BatchSize,
	})
	if err != nil {
		return err
	}
	logrus.Debugf("%d trials in %v", opts.Trials, time.Since(start))

	results := answer(d, windows)
	if err := renderReport(out, s.Name(), d, results); err != nil {
		return err
	}

	if opts.TraceTrials > 0 {
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
		logrus.Debugf("tracing %d trials of %s with key %d", opts.TraceTrials, s.Name(), rng.Key())
		traces := make([]*trace.Trial, 0, opts.TraceTrials)
		for i := 0; i < opts.TraceTrials; i++ {
			_, rec := sim.TraceSample(s, rng)
			traces = append(traces, rec)
		}
		if err := renderTraceSummary(out, trace.Summarize(traces)); err != nil {
			return err
		}
	}

	if opts.ExportPath != "" {
		if err := exportCSV(opts.ExportPath, d); err != nil {
			return err
		}
		logrus.Infof("Distribution written to %s", opts.ExportPath)
	}

	if opts.StorePath != "" {
		id, err := saveRun(opts.StorePath, s.Name(), opts, source, d, results)
		if err != nil {
			return err
		}
		logrus.Infof("Run %d recorded in %s", id, opts.StorePath)
	}
	return nil
}

// loadTable reads the timing file, merges recordings over it and evaluates
// derivations. The returned description names the inputs used.
func loadTable(path, recordingsDir string, best bool) (*sim.TimingTable, string, error) {
	f, err := timing.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	source := path
	if recordingsDir != "" {
		mode := timing.Average
		if best {
			mode = timing.Best
		}
		rec, err := timing.Aggregate(recordingsDir, mode)
		if err != nil {
			return nil, "", err
		}
		f.Merge(rec)
		source = fmt.Sprintf("%s+%s(%s)", path, recordingsDir, mode)
		logrus.Infof("Merged %d recorded segments from %s", len(rec), recordingsDir)
	}
	table, err := f.Table()
	if err != nil {
		return nil, "", err
	}
	return table, source, nil
}

// parseWindows turns --under and --between values into frame windows.
func parseWindows(under, between []string) ([]window, error) {
	var out []window
	for _, u := range under {
		hi, err := sim.ParseTimestamp(u)
		if err != nil {
			return nil, fmt.Errorf("--under: %w", err)
		}
		out = append(out, window{Label: "< " + u, Lo: 0, Hi: hi})
	}
	for _, b := range between {
		lo, hi, ok := strings.Cut(b, "-")
		if !ok {
			return nil, fmt.Errorf("--between %q: want a-b", b)
		}
		loF, err := sim.ParseTimestamp(lo)
		if err != nil {
			return nil, fmt.Errorf("--between: %w", err)
		}
		hiF, err := sim.ParseTimestamp(hi)
		if err != nil {
			return nil, fmt.Errorf("--between: %w", err)
		}
		if hiF < loF {
			return nil, fmt.Errorf("--between %q: end before start", b)
		}
		out = append(out, window{Label: strings.TrimSpace(lo) + " - " + strings.TrimSpace(hi), Lo: loF, Hi: hiF})
	}
	return out, nil
}

func answer(d *stats.Distribution, windows []window) []windowResult {
	out := make([]windowResult, 0, len(windows))
	for _, w := range windows {
		p := d.Probability(int(w.Lo), int(w.Hi))
		out = append(out, windowResult{window: w, Probability: p, Margin: d.ErrorMargin(p)})
	}
	return out
}

func exportCSV(path string, d *stats.Distribution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveRun(path, name string, opts runOptions, source string, d *stats.Distribution, results []windowResult) (int64, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	rec := store.RunRecord{
		Region: name,
		Trials: d.Total(),
		Seed:   opts.Seed,
		Timing: source,
		Mean:   d.Mean(),
		Stdev:  d.Stdev(),
		Min:    d.Min(),
		Max:    d.Max(),
		P50:    d.Percentile(0.5),
		P90:    d.Percentile(0.9),
	}
	for _, r := range results {
		rec.Windows = append(rec.Windows, store.Window{Lo: int(r.Lo), Hi: int(r.Hi), Probability: r.Probability})
	}
	return st.SaveRun(rec)
}
