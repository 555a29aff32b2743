package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testSegmentFrames = 100
	testSaveFrames    = 10
)

// newTestTable returns a table holding every key the regions read. Segments
// cost 100 frames, skip savings 10, and each step-fix room has min 150 with a
// backtrack of 20.
func newTestTable() *TimingTable {
	tt := NewTimingTable()
	req := (&FullGame{regions: []Simulator{&Ruins{}, &Snowdin{}, &Waterfall{}, &Endgame{}}}).Requirements()
	for _, k := range req.Segments {
		tt.Segments[k] = testSegmentFrames
	}
	tt.Segments[segFrogskipSave] = testSaveFrames
	tt.Segments[segDogskipSave] = testSaveFrames
	for _, k := range req.Rooms {
		tt.StepFix[k] = StepFix{Min: 150, Backtrack: 20}
	}
	tt.GuaranteedBlcons[ruinsArea] = 22
	tt.GuaranteedBlcons[snowdinArea] = 6
	tt.GuaranteedBlcons[waterfallArea] = 9
	tt.GuaranteedBlcons[endgameArea] = 2
	return tt
}

// newTestRegions builds every simulator over the shared test table.
func newTestRegions(t *testing.T) map[string]Simulator {
	t.Helper()
	table := newTestTable()
	out := make(map[string]Simulator, len(RegionNames))
	for _, name := range RegionNames {
		s, err := NewByName(name, table)
		require.NoError(t, err, name)
		out[name] = s
	}
	return out
}
