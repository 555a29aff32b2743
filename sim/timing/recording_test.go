package timing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesim/routesim/sim"
	"github.com/routesim/routesim/sim/internal/testutil"
)

func TestReadRecording(t *testing.T) {
	// GIVEN entries split over lines with surrounding whitespace
	rec, err := ReadRecording(strings.NewReader("whim=3366667;\n sgl-mold = 12266667 ;\n"))
	require.NoError(t, err)

	// THEN microseconds are rounded to frames
	assert.Equal(t, map[string]sim.Frame{"whim": 101, "sgl-mold": 368}, rec)
}

func TestReadRecording_Errors(t *testing.T) {
	tests := map[string]string{
		"missing equals": "whim3366667;",
		"empty name":     "=100;",
		"bad number":     "whim=abc;",
		"negative":       "whim=-5;",
		"unterminated":   "whim=100;temmie=200",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRecording(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestReadRecording_Empty(t *testing.T) {
	rec, err := ReadRecording(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestAggregate_AverageUsesPerKeyCount(t *testing.T) {
	rec, err := Aggregate(testutil.FixturePath(t, "recordings"), Average)
	require.NoError(t, err)

	// keys recorded once keep their value instead of being halved
	assert.Equal(t, map[string]sim.Frame{
		"froggit-lv2": 344,
		"whim":        100,
		"sgl-mold":    368,
		"temmie":      266,
	}, rec)
}

func TestAggregate_Best(t *testing.T) {
	rec, err := Aggregate(testutil.FixturePath(t, "recordings"), Best)
	require.NoError(t, err)

	assert.Equal(t, sim.Frame(343), rec["froggit-lv2"])
	assert.Equal(t, sim.Frame(99), rec["whim"])
	assert.Equal(t, []string{"froggit-lv2", "sgl-mold", "temmie", "whim"}, SortedKeys(rec))
}

func TestAggregate_SkipsDirectories(t *testing.T) {
	// GIVEN a directory holding a subdirectory and one recording
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("whim=3300000;"), 0o644))

	// WHEN averaging
	rec, err := Aggregate(dir, Average)

	// THEN the subdirectory does not dilute the average
	require.NoError(t, err)
	assert.Equal(t, sim.Frame(99), rec["whim"])
}

func TestAggregate_EmptyDirectory(t *testing.T) {
	_, err := Aggregate(t.TempDir(), Best)
	assert.Error(t, err)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "average", Average.String())
	assert.Equal(t, "best", Best.String())
}
