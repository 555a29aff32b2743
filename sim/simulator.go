package sim

import (
	"github.com/routesim/routesim/sim/trace"
)

// Simulator runs one trial of a route region and returns its total frames.
//
// The set of implementations is closed (Ruins, Snowdin, Waterfall, Endgame,
// FullGame): the unexported simulate method keeps other packages from adding
// variants. Simulate is pure given the Source; the TimingTable is only read.
type Simulator interface {
	// Name identifies the region, e.g. "ruins".
	Name() string
	// Simulate runs one trial drawing from src.
	Simulate(src Source) Frame
	// Requirements lists the timing-table keys the region reads.
	Requirements() Requirements

	simulate(t *trial)
	timingTable() *TimingTable
}

// trial is the per-call accumulator shared by the region state machines.
// It is created at Simulate entry and discarded on return.
type trial struct {
	table   *TimingTable
	src     Source
	rec     *trace.Trial
	region  string
	elapsed Frame
}

func newTrial(table *TimingTable, src Source, rec *trace.Trial) *trial {
	return &trial{table: table, src: src, rec: rec}
}

// segment adds the duration of a named segment.
func (t *trial) segment(name string) {
	t.elapsed += t.table.Segment(name)
}

// frames adds a raw frame count.
func (t *trial) frames(f Frame) {
	t.elapsed += f
}

// steps adds a rolled step count (one frame per step).
func (t *trial) steps(n int) {
	t.elapsed += Frame(n)
}

// fixedSteps adds a step count corrected for a room's minimum traversal.
func (t *trial) fixedSteps(n int, room string) {
	t.elapsed += t.table.StepFixup(n, room)
}

// blcons adds n random blcons.
func (t *trial) blcons(n int) {
	t.elapsed += EncounterEntryTime(t.src, n)
}

// skipSavings subtracts the saving of each successful skip among n draws.
func (t *trial) skipSavings(saveSegment string, n int) {
	save := t.table.Segment(saveSegment)
	for i := 0; i < n; i++ {
		t.elapsed -= save * Frame(SkipBonus(t.src))
	}
}

// record logs a loop iteration when tracing is enabled. An empty encounter
// marks an iteration that advanced kills without a random battle.
func (t *trial) record(phase string, before, after int, encounter string) {
	if t.rec == nil {
		return
	}
	t.rec.Record(trace.Step{
		Region:      t.region,
		Phase:       phase,
		KillsBefore: before,
		KillsAfter:  after,
		Encounter:   encounter,
		Elapsed:     int(t.elapsed),
	})
}

// enter switches the region label used for trace records.
func (t *trial) enter(region string) {
	t.region = region
}

// run executes one trial of s against a fresh accumulator.
func run(s Simulator, table *TimingTable, src Source, rec *trace.Trial) Frame {
	t := newTrial(table, src, rec)
	s.simulate(t)
	if rec != nil {
		rec.Total = int(t.elapsed)
	}
	return t.elapsed
}

// Trace runs one trial of s and returns its result together with the
// recorded loop iterations.
func Trace(s Simulator, src Source) (Frame, *trace.Trial) {
	rec := trace.NewTrial()
	return run(s, s.timingTable(), src, rec), rec
}

// killScaled names the durations of an encounter whose length depends on how
// close the region is to its kill ceiling.
type killScaled struct {
	base string
	at18 string // used from 18 kills when set
	at19 string // used from 19 kills when set
}

func (k killScaled) pick(kills int) string {
	switch {
	case kills >= 19 && k.at19 != "":
		return k.at19
	case kills >= 18 && k.at18 != "":
		return k.at18
	}
	return k.base
}

func (k killScaled) names() []string {
	var out []string
	for _, n := range []string{k.base, k.at18, k.at19} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// newRegion validates a table against a region's requirements.
func newRegion(name string, table *TimingTable, req Requirements) error {
	if err := table.Validate(req); err != nil {
		return &RegionError{Region: name, Err: err}
	}
	return nil
}

// RegionError reports a region that cannot be built from a timing table.
type RegionError struct {
	Region string
	Err    error
}

func (e *RegionError) Error() string {
	return e.Region + ": " + e.Err.Error()
}

func (e *RegionError) Unwrap() error { return e.Err }
