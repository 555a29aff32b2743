package sim

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingKey is wrapped by every error reporting an absent timing-table key.
var ErrMissingKey = errors.New("timing table key missing")

// MissingKeyError names the table section and key that a lookup could not find.
// Simulators panic with it when a key escapes constructor validation.
type MissingKeyError struct {
	Section string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s[%q]: %v", e.Section, e.Key, ErrMissingKey)
}

func (e *MissingKeyError) Unwrap() error { return ErrMissingKey }

// StepFix describes a room with a minimum traversal length. Grinding past
// that length costs Backtrack extra frames to walk back.
type StepFix struct {
	Min       Frame `yaml:"min"`
	Backtrack Frame `yaml:"backtrack"`
}

// TimingTable is the read-only input of every simulator: segment durations,
// step-fix rooms and guaranteed blcon counts per area. It is built once by a
// loader and never mutated while trials run, so it is safe to share between
// goroutines.
type TimingTable struct {
	Segments         map[string]Frame
	StepFix          map[string]StepFix
	GuaranteedBlcons map[string]int
}

// NewTimingTable returns an empty table with all sections allocated.
func NewTimingTable() *TimingTable {
	return &TimingTable{
		Segments:         make(map[string]Frame),
		StepFix:          make(map[string]StepFix),
		GuaranteedBlcons: make(map[string]int),
	}
}

// Segment returns the duration of a named segment.
func (tt *TimingTable) Segment(name string) Frame {
	f, ok := tt.Segments[name]
	if !ok {
		panic(&MissingKeyError{Section: "segments", Key: name})
	}
	return f
}

// Room returns the step-fix pair of a room.
func (tt *TimingTable) Room(room string) StepFix {
	fix, ok := tt.StepFix[room]
	if !ok {
		panic(&MissingKeyError{Section: "step_fix", Key: room})
	}
	return fix
}

// Blcons returns the number of blcons an area always plays.
func (tt *TimingTable) Blcons(area string) int {
	n, ok := tt.GuaranteedBlcons[area]
	if !ok {
		panic(&MissingKeyError{Section: "guaranteed_blcons", Key: area})
	}
	return n
}

// StepFixup corrects a rolled step count for a room's minimum traversal:
// a short roll still walks the whole room, a long roll pays the backtrack.
func (tt *TimingTable) StepFixup(steps int, room string) Frame {
	fix := tt.Room(room)
	s := Frame(steps + 1)
	if s <= fix.Min {
		return fix.Min
	}
	return s + fix.Backtrack
}

// Requirements lists the keys a simulator reads from a TimingTable.
type Requirements struct {
	Segments []string
	Rooms    []string
	Areas    []string
}

// merge returns the union of r and other.
func (r Requirements) merge(other Requirements) Requirements {
	return Requirements{
		Segments: append(append([]string{}, r.Segments...), other.Segments...),
		Rooms:    append(append([]string{}, r.Rooms...), other.Rooms...),
		Areas:    append(append([]string{}, r.Areas...), other.Areas...),
	}
}

// Validate checks that every required key is present. The returned error
// lists all missing keys at once and wraps ErrMissingKey.
func (tt *TimingTable) Validate(req Requirements) error {
	if tt == nil {
		return fmt.Errorf("nil timing table: %w", ErrMissingKey)
	}
	var missing []string
	for _, k := range req.Segments {
		if _, ok := tt.Segments[k]; !ok {
			missing = append(missing, "segments."+k)
		}
	}
	for _, k := range req.Rooms {
		if _, ok := tt.StepFix[k]; !ok {
			missing = append(missing, "step_fix."+k)
		}
	}
	for _, k := range req.Areas {
		if _, ok := tt.GuaranteedBlcons[k]; !ok {
			missing = append(missing, "guaranteed_blcons."+k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	missing = dedupSorted(missing)
	return fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
}

func dedupSorted(keys []string) []string {
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != keys[i-1] {
			out = append(out, k)
		}
	}
	return out
}
