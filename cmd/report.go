package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/routesim/routesim/internal/store"
	"github.com/routesim/routesim/sim"
	"github.com/routesim/routesim/sim/stats"
	"github.com/routesim/routesim/sim/trace"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// frameCell formats a frame count with its hh:mm:ss equivalent.
func frameCell(f float64) string {
	return fmt.Sprintf("%.1f (%s)", f, sim.Frame(math.Round(f)).Timestamp())
}

// renderReport prints the distribution summary and window probabilities.
func renderReport(w io.Writer, name string, d *stats.Distribution, windows []windowResult) error {
	summary := newTable("Statistic", "Frames").
		Row("Trials", fmt.Sprintf("%d", d.Total())).
		Row("Mean", frameCell(d.Mean())).
		Row("Stdev", fmt.Sprintf("%.1f", d.Stdev())).
		Row("Min", frameCell(float64(d.Min()))).
		Row("Median", frameCell(d.Percentile(0.5))).
		Row("P90", frameCell(d.Percentile(0.9))).
		Row("Max", frameCell(float64(d.Max())))

	if _, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render("Simulation Results: "+name), summary.Render()); err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}

	probs := newTable("Window", "Probability", "Margin")
	for _, r := range windows {
		probs.Row(r.Label, fmt.Sprintf("%.4f", r.Probability), fmt.Sprintf("±%.4f", r.Margin))
	}
	_, err := fmt.Fprintf(w, "%s\n", probs.Render())
	return err
}

// renderTraceSummary prints per-region iteration counts and encounter frequencies.
func renderTraceSummary(w io.Writer, s *trace.Summary) error {
	regions := make([]string, 0, len(s.MeanIterations))
	for r := range s.MeanIterations {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	loops := newTable("Region", "Mean iterations", "Max final kills")
	for _, r := range regions {
		loops.Row(r, fmt.Sprintf("%.2f", s.MeanIterations[r]), fmt.Sprintf("%d", s.MaxFinalKills[r]))
	}

	names := make([]string, 0, len(s.EncounterCounts))
	for e := range s.EncounterCounts {
		names = append(names, e)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := s.EncounterCounts[names[i]], s.EncounterCounts[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	encounters := newTable("Encounter", "Count")
	for _, e := range names {
		encounters.Row(e, fmt.Sprintf("%d", s.EncounterCounts[e]))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		titleStyle.Render(fmt.Sprintf("Traced Trials: %d", s.Trials)), loops.Render(), encounters.Render())
	return err
}

// renderHistory prints stored runs, newest first.
func renderHistory(w io.Writer, runs []store.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	t := newTable("ID", "When", "Region", "Trials", "Seed", "Mean", "Stdev", "Windows")
	for _, r := range runs {
		t.Row(
			fmt.Sprintf("%d", r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Region,
			fmt.Sprintf("%d", r.Trials),
			fmt.Sprintf("%d", r.Seed),
			frameCell(r.Mean),
			fmt.Sprintf("%.1f", r.Stdev),
			fmt.Sprintf("%d", len(r.Windows)),
		)
	}
	_, err := fmt.Fprintf(w, "%s\n", t.Render())
	return err
}
