package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrial_RecordAndRegion(t *testing.T) {
	// GIVEN a trial with steps in two regions
	tr := NewTrial()
	tr.Record(Step{Region: "ruins", KillsBefore: 0, KillsAfter: 1, Encounter: "froggit"})
	tr.Record(Step{Region: "snowdin", KillsBefore: 3, KillsAfter: 5})
	tr.Record(Step{Region: "ruins", KillsBefore: 1, KillsAfter: 2, Encounter: "whimsun"})

	// THEN Region filters in order
	ruins := tr.Region("ruins")
	assert.Len(t, ruins, 2)
	assert.Equal(t, "whimsun", ruins[1].Encounter)
	assert.Empty(t, tr.Region("waterfall"))
}

func TestTrial_FinalKills(t *testing.T) {
	tr := NewTrial()
	tr.Record(Step{Region: "endgame", KillsBefore: 32, KillsAfter: 39})
	tr.Record(Step{Region: "endgame", KillsBefore: 39, KillsAfter: 41})

	assert.Equal(t, 41, tr.FinalKills("endgame"))
	assert.Equal(t, -1, tr.FinalKills("ruins"))
}

func TestTrial_NilRecordIsNoop(t *testing.T) {
	var tr *Trial
	assert.NotPanics(t, func() { tr.Record(Step{Region: "ruins"}) })
}

func TestStep_Advance(t *testing.T) {
	assert.Equal(t, 7, Step{KillsBefore: 32, KillsAfter: 39}.Advance())
}
