// Package trace records the iterations of region state machines for
// inspection and testing. It has no dependencies on sim/ and stores pure data.
package trace

// Step captures one iteration of a region loop: the kill count before and
// after the encounter, the outcome drawn and the elapsed frames afterwards.
type Step struct {
	Region      string
	Phase       string
	KillsBefore int
	KillsAfter  int
	Encounter   string
	Elapsed     int
}

// Advance is the number of kills the iteration added.
func (s Step) Advance() int {
	return s.KillsAfter - s.KillsBefore
}
