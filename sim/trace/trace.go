package trace

// Trial collects the steps of one simulated run.
type Trial struct {
	Steps []Step
	Total int
}

// NewTrial creates a Trial ready for recording.
func NewTrial() *Trial {
	return &Trial{Steps: make([]Step, 0, 64)}
}

// Record appends a step. A nil Trial ignores the call so callers can record
// unconditionally.
func (t *Trial) Record(s Step) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, s)
}

// Region returns the steps recorded for one region, in order.
func (t *Trial) Region(name string) []Step {
	var out []Step
	for _, s := range t.Steps {
		if s.Region == name {
			out = append(out, s)
		}
	}
	return out
}

// FinalKills returns the kill count after the last recorded step of a region,
// or -1 when the region recorded nothing.
func (t *Trial) FinalKills(region string) int {
	final := -1
	for _, s := range t.Steps {
		if s.Region == region {
			final = s.KillsAfter
		}
	}
	return final
}
