package timing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesim/routesim/sim"
	"github.com/routesim/routesim/sim/internal/testutil"
)

func TestLoad_FixtureBuildsEveryRegion(t *testing.T) {
	// GIVEN the repository timing fixture
	table, err := Load(testutil.FixturePath(t, "timing.yaml"))
	require.NoError(t, err)

	// THEN every simulator accepts it
	for _, name := range sim.RegionNames {
		_, err := sim.NewByName(name, table)
		assert.NoError(t, err, name)
	}
	// AND derivations are evaluated into plain segments
	assert.Equal(t, sim.Frame(7966), table.Segment("ruins"))
	assert.Equal(t, sim.Frame(617), table.Segment("core-bridge"))
	assert.Equal(t, sim.StepFix{Min: 97, Backtrack: 30}, table.Room("ruins-leaf-pile"))
	assert.Equal(t, 22, table.Blcons("ruins"))
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("segments: {a: 1}\nsegmnts: {b: 2}\n"))
	assert.Error(t, err)
}

func TestParse_RejectsNegativeValues(t *testing.T) {
	_, err := Parse(strings.NewReader("segments: {a: -1}\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("guaranteed_blcons: {ruins: -2}\n"))
	assert.Error(t, err)
}

func TestParse_TermForms(t *testing.T) {
	f, err := Parse(strings.NewReader(`
derived:
  total:
    - a
    - {segment: b, times: 3}
    - {segment: c}
`))
	require.NoError(t, err)
	assert.Equal(t, []Term{{"a", 1}, {"b", 3}, {"c", 1}}, f.Derived["total"])
}

func TestParse_TermWithoutSegment(t *testing.T) {
	_, err := Parse(strings.NewReader("derived:\n  x:\n    - {times: 2}\n"))
	assert.Error(t, err)
}

func TestTable_NestedDerivations(t *testing.T) {
	// GIVEN a derivation that uses another derivation
	f := &File{
		Segments: map[string]sim.Frame{"a": 2, "b": 5},
		Derived: map[string][]Term{
			"outer": {{"inner", 2}, {"a", 1}},
			"inner": {{"a", 1}, {"b", 1}},
		},
	}

	// WHEN evaluating
	tt, err := f.Table()
	require.NoError(t, err)

	// THEN both are resolved and the file is left untouched
	assert.Equal(t, sim.Frame(7), tt.Segment("inner"))
	assert.Equal(t, sim.Frame(16), tt.Segment("outer"))
	assert.NotContains(t, f.Segments, "outer")
}

func TestTable_UnknownTerm(t *testing.T) {
	f := &File{Derived: map[string][]Term{"x": {{"missing", 1}}}}
	_, err := f.Table()
	assert.ErrorIs(t, err, ErrUnknownTerm)
}

func TestTable_Cycle(t *testing.T) {
	f := &File{Derived: map[string][]Term{
		"x": {{"y", 1}},
		"y": {{"x", 1}},
	}}
	_, err := f.Table()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestTable_DerivedShadowsSegment(t *testing.T) {
	f := &File{
		Segments: map[string]sim.Frame{"x": 1},
		Derived:  map[string][]Term{"x": {{"x", 1}}},
	}
	_, err := f.Table()
	assert.Error(t, err)
}

func TestMerge_OverridesAndAdds(t *testing.T) {
	f := &File{Segments: map[string]sim.Frame{"whim": 101, "sgl-mold": 368}}
	f.Merge(map[string]sim.Frame{"whim": 99, "temmie": 266})

	assert.Equal(t, map[string]sim.Frame{"whim": 99, "sgl-mold": 368, "temmie": 266}, f.Segments)
}

func TestEncode_ParsesBack(t *testing.T) {
	// GIVEN the fixture file
	f, err := LoadFile(testutil.FixturePath(t, "timing.yaml"))
	require.NoError(t, err)

	// WHEN encoding and parsing again
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	back, err := Parse(&buf)
	require.NoError(t, err)

	// THEN the evaluated tables agree
	want, err := f.Table()
	require.NoError(t, err)
	got, err := back.Table()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncode_ScalarTermsStayScalar(t *testing.T) {
	f := &File{Derived: map[string][]Term{"x": {{"a", 1}, {"b", 2}}}}
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))

	assert.Contains(t, buf.String(), "- a\n")
	assert.Contains(t, buf.String(), "segment: b")
}

func TestCompose_LaterFilesOverride(t *testing.T) {
	// GIVEN a base file and an override that records a derived segment directly
	base := &File{
		Segments:         map[string]sim.Frame{"a": 1, "b": 2},
		Derived:          map[string][]Term{"sum": {{"a", 1}, {"b", 1}}},
		StepFix:          map[string]sim.StepFix{"room": {Min: 10, Backtrack: 1}},
		GuaranteedBlcons: map[string]int{"ruins": 22},
	}
	override := &File{
		Segments:         map[string]sim.Frame{"b": 5, "sum": 40},
		GuaranteedBlcons: map[string]int{"ruins": 20},
	}

	// WHEN composing
	got, err := Compose([]*File{base, override})
	require.NoError(t, err)

	// THEN overrides win and a recorded value replaces the derivation
	assert.Equal(t, map[string]sim.Frame{"a": 1, "b": 5, "sum": 40}, got.Segments)
	assert.Empty(t, got.Derived)
	assert.Equal(t, 20, got.GuaranteedBlcons["ruins"])
	assert.Equal(t, sim.StepFix{Min: 10, Backtrack: 1}, got.StepFix["room"])
	// AND the inputs are untouched
	assert.Equal(t, sim.Frame(2), base.Segments["b"])
}

func TestCompose_Empty(t *testing.T) {
	_, err := Compose(nil)
	assert.Error(t, err)
}
