package trace

// Summary aggregates encounter statistics over many traced trials.
type Summary struct {
	Trials          int
	MeanIterations  map[string]float64 // region → mean loop iterations per trial
	MaxFinalKills   map[string]int     // region → highest final kill count seen
	EncounterCounts map[string]int     // encounter name → occurrences
}

// Summarize computes aggregate statistics from traced trials.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(trials []*Trial) *Summary {
	summary := &Summary{
		MeanIterations:  make(map[string]float64),
		MaxFinalKills:   make(map[string]int),
		EncounterCounts: make(map[string]int),
	}
	iterations := make(map[string]int)
	for _, t := range trials {
		if t == nil {
			continue
		}
		summary.Trials++
		final := make(map[string]int)
		for _, s := range t.Steps {
			iterations[s.Region]++
			final[s.Region] = s.KillsAfter
			if s.Encounter != "" {
				summary.EncounterCounts[s.Encounter]++
			}
		}
		for region, kills := range final {
			if kills > summary.MaxFinalKills[region] {
				summary.MaxFinalKills[region] = kills
			}
		}
	}
	if summary.Trials == 0 {
		return summary
	}
	for region, n := range iterations {
		summary.MeanIterations[region] = float64(n) / float64(summary.Trials)
	}
	return summary
}
