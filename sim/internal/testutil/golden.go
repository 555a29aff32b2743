// Package testutil provides shared test infrastructure for the route
// simulator: scripted random sources, fixture paths and float assertions
// used across sim/ and its sub-package tests.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"
)

// ScriptedSource replays a fixed sequence of draws, cycling when exhausted.
// It satisfies sim.Source without importing sim.
type ScriptedSource struct {
	values []float64
	next   int
	Draws  int
}

// NewScriptedSource returns a source that yields values in order, forever.
// Panics on an empty script.
func NewScriptedSource(values ...float64) *ScriptedSource {
	if len(values) == 0 {
		panic("testutil: empty script")
	}
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.Draws++
	return v
}

// RecordingSource wraps another source and keeps every value it hands out.
type RecordingSource struct {
	Inner interface{ Float64() float64 }
	Seen  []float64
}

func (r *RecordingSource) Float64() float64 {
	v := r.Inner.Float64()
	r.Seen = append(r.Seen, v)
	return v
}

// FixturePath resolves a file under the repository's testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func FixturePath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
