package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesFileAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	// GIVEN a database with one run
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveRun(RunRecord{Region: "ruins", Trials: 10})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// WHEN opening it again
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	// THEN migrations are idempotent and data survives
	runs, err := s.RecentRuns("", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTemp(t)
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	// GIVEN a run with two probability windows
	id, err := s.SaveRun(RunRecord{
		Region: "snowdin", Trials: 100000, Seed: 42, Timing: "testdata/timing.yaml",
		Mean: 20123.4, Stdev: 310.2, Min: 19000, Max: 21900, P50: 20100, P90: 20500,
		Windows:   []Window{{Lo: 0, Hi: 20000, Probability: 0.35}, {Lo: 20000, Hi: 21000, Probability: 0.6}},
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	// WHEN reading it back
	runs, err := s.RecentRuns("snowdin", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// THEN every field survives
	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, int64(42), r.Seed)
	assert.Equal(t, 100000, r.Trials)
	assert.Equal(t, "testdata/timing.yaml", r.Timing)
	assert.InDelta(t, 20123.4, r.Mean, 1e-9)
	assert.Equal(t, 19000, r.Min)
	assert.Equal(t, 21900, r.Max)
	assert.True(t, created.Equal(r.CreatedAt))
	assert.Equal(t, []Window{{0, 20000, 0.35}, {20000, 21000, 0.6}}, r.Windows)
}

func TestRecentRuns_FiltersAndOrders(t *testing.T) {
	s := openTemp(t)
	for _, region := range []string{"ruins", "endgame", "ruins", "ruins"} {
		_, err := s.SaveRun(RunRecord{Region: region, Trials: 1})
		require.NoError(t, err)
	}

	ruins, err := s.RecentRuns("ruins", 2)
	require.NoError(t, err)
	require.Len(t, ruins, 2)
	assert.Greater(t, ruins[0].ID, ruins[1].ID, "newest first")
	for _, r := range ruins {
		assert.Equal(t, "ruins", r.Region)
		assert.Empty(t, r.Windows)
	}

	all, err := s.RecentRuns("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSaveRun_DefaultsCreatedAt(t *testing.T) {
	s := openTemp(t)
	before := time.Now().Add(-time.Second)

	_, err := s.SaveRun(RunRecord{Region: "full", Trials: 1})
	require.NoError(t, err)

	runs, err := s.RecentRuns("full", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].CreatedAt.After(before))
}
