package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesim/routesim/internal/store"
)

const fixtureTiming = "../testdata/timing.yaml"

func testOptions(region string) runOptions {
	return runOptions{
		Region:     region,
		Trials:     500,
		Seed:       42,
		Workers:    2,
		BatchSize:  100,
		TimingPath: fixtureTiming,
	}
}

func TestRunSimulation_ReportPrinted(t *testing.T) {
	// GIVEN a small Ruins run with two windows
	opts := testOptions("ruins")
	opts.Under = []string{"20:00"}
	opts.Between = []string{"10:00-30:00"}

	// WHEN the simulation runs
	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), opts, &out))

	// THEN the summary and the window table are printed
	s := out.String()
	assert.Contains(t, s, "Simulation Results: ruins")
	assert.Contains(t, s, "Mean")
	assert.Contains(t, s, "< 20:00")
	assert.Contains(t, s, "10:00 - 30:00")
}

func TestRunSimulation_SameSeedSameReport(t *testing.T) {
	// GIVEN two runs with the same seed but different worker counts
	a, b := testOptions("snowdin"), testOptions("snowdin")
	b.Workers = 5

	var outA, outB bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), a, &outA))
	require.NoError(t, runSimulation(context.Background(), b, &outB))

	// THEN the reports are identical
	assert.Equal(t, outA.String(), outB.String())
}

func TestRunSimulation_DifferentSeedsDiffer(t *testing.T) {
	a, b := testOptions("endgame"), testOptions("endgame")
	b.Seed = 7

	var outA, outB bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), a, &outA))
	require.NoError(t, runSimulation(context.Background(), b, &outB))

	assert.NotEqual(t, outA.String(), outB.String())
}

func TestRunSimulation_ExportStoreAndTrace(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions("waterfall")
	opts.ExportPath = filepath.Join(dir, "dist.csv")
	opts.StorePath = filepath.Join(dir, "runs.db")
	opts.Under = []string{"12:00"}
	opts.TraceTrials = 5

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), opts, &out))

	// THEN the trace summary is printed
	assert.Contains(t, out.String(), "Traced Trials: 5")
	assert.Contains(t, out.String(), "waterfall")

	// AND the CSV has one row per frame between min and max
	data, err := os.ReadFile(opts.ExportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.NotEmpty(t, lines)
	assert.Regexp(t, `^\d+,\d+$`, lines[0])

	// AND the run is in the history with its window
	st, err := store.Open(opts.StorePath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.RecentRuns("waterfall", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 500, runs[0].Trials)
	assert.Equal(t, fixtureTiming, runs[0].Timing)
	require.Len(t, runs[0].Windows, 1)
	assert.Equal(t, 12*60*30, runs[0].Windows[0].Hi)

	// AND history renders it
	var hist bytes.Buffer
	require.NoError(t, renderHistory(&hist, runs))
	assert.Contains(t, hist.String(), "waterfall")
}

func TestRunSimulation_RecordingsOverride(t *testing.T) {
	opts := testOptions("ruins")
	opts.Recordings = "../testdata/recordings"
	opts.Best = true
	opts.StorePath = filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, runSimulation(context.Background(), opts, io.Discard))

	st, err := store.Open(opts.StorePath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.RecentRuns("ruins", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Timing, "(best)")
}

func TestRunSimulation_Errors(t *testing.T) {
	tests := map[string]func(*runOptions){
		"unknown region":   func(o *runOptions) { o.Region = "hotland" },
		"missing timing":   func(o *runOptions) { o.TimingPath = "does-not-exist.yaml" },
		"zero trials":      func(o *runOptions) { o.Trials = 0 },
		"bad window":       func(o *runOptions) { o.Under = []string{"soon"} },
		"missing records":  func(o *runOptions) { o.Recordings = "does-not-exist" },
		"reversed between": func(o *runOptions) { o.Between = []string{"20:00-10:00"} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			opts := testOptions("ruins")
			mutate(&opts)
			assert.Error(t, runSimulation(context.Background(), opts, io.Discard))
		})
	}
}

func TestParseWindows(t *testing.T) {
	ws, err := parseWindows([]string{"1:00"}, []string{"0:30 - 1:30"})
	require.NoError(t, err)
	require.Len(t, ws, 2)

	assert.Equal(t, window{Label: "< 1:00", Lo: 0, Hi: 1800}, ws[0])
	assert.Equal(t, window{Label: "0:30 - 1:30", Lo: 900, Hi: 2700}, ws[1])

	_, err = parseWindows(nil, []string{"1:00"})
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	_, err := setupLogging("loud", "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "routesim.log")
	closer, err := setupLogging("warn", path)
	require.NoError(t, err)
	require.NotNil(t, closer)
	t.Cleanup(func() {
		closer.Close()
		_, _ = setupLogging("warn", "")
	})
}
