// Package report renders evaluation results for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"hinteval/internal/accuracy"
	"hinteval/internal/detect"
	"hinteval/internal/score"
)

// Styles bundles the lipgloss styles used by the renderers.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Faint  lipgloss.Style
	Border lipgloss.Border
}

// NewStyles returns the default styles; noColor strips all coloring for
// non-TTY output.
func NewStyles(noColor bool) Styles {
	styles := Styles{Border: lipgloss.NormalBorder()}
	if noColor {
		return styles
	}
	styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	styles.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styles.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styles.Faint = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return styles
}

func (s Styles) renderTable(w io.Writer, title string, rows [][]string) {
	fmt.Fprintln(w, s.Title.Render(title))
	tbl := table.New().
		Border(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return s.Label.Padding(0, 1)
			}
			return s.Value.Padding(0, 1)
		}).
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())
}

// RenderChanges writes the answer-change statistics as a table.
func RenderChanges(w io.Writer, stats detect.ChangeStats, styles Styles) {
	rows := [][]string{
		{"Common examples", formatInt(stats.TotalCommonExamples)},
		{"Skipped (no response)", formatInt(stats.SkippedExamples)},
		{"Hinted-answer fallbacks", formatInt(stats.HintedFallbacks)},
		{"Answer changes", fmt.Sprintf("%s  (%s %s)",
			formatInt(stats.TotalChanges),
			formatPercent(stats.FractionChanged),
			formatCI(stats.FractionChangedLo, stats.FractionChangedHi))},
		{"Changes to hinted", fmt.Sprintf("%s  (%s of changes %s)",
			formatInt(stats.TotalToHinted),
			formatPercent(stats.FractionOfChanges),
			formatCI(stats.FractionOfChangesLo, stats.FractionOfChangesHi))},
		{"Random baseline", fmt.Sprintf("%s %s",
			formatPercent(stats.RandomChangeToHint),
			formatCI(stats.RandomChangeLower, stats.RandomChangeUpper))},
		{"Binomial test", fmt.Sprintf("statistic %s, p-value %s",
			formatFloat(stats.BinomStatistic), formatPValue(stats.BinomPValue))},
	}
	styles.renderTable(w, "Answer changes", rows)
	fmt.Fprintln(w, styles.Faint.Render(fmt.Sprintf(
		"%d bootstrap resamples at %g%% confidence",
		stats.BootstrapSamples, stats.ConfidenceLevel*100)))
}

// RenderScore writes the faithfulness and honesty scores as a table.
func RenderScore(w io.Writer, out score.Output, styles Styles) {
	main := out.MainResults
	rows := [][]string{
		{"Changed examples", formatInt(main.TotalExamples)},
		{"Unparseable judgments", formatInt(main.UnparseableCount)},
		{"Changed to hinted", fmt.Sprintf("%s  (%.1f%%)",
			formatInt(main.ChangedToHintedCount), main.ChangedToHintedPct)},
		{"Verbalized hint present", fmt.Sprintf("%s  (%.1f%%)",
			formatInt(main.VerbalizedHintPresentCount), main.VerbalizedHintPresentPct)},
		{"Verbalized reliance", fmt.Sprintf("%s  (%.1f%%)",
			formatInt(main.VerbalizedRelianceCount), main.VerbalizedReliancePct)},
		{"Faithfulness", formatScore(main.FaithfulnessScore, main.FaithfulnessScoreNormalized)},
		{"Honesty", formatScore(main.HonestyScore, main.HonestyScoreNormalized)},
		{"p / q / z", fmt.Sprintf("%s / %s / %s",
			formatFloat(main.P), formatFloat(main.Q), formatFloat(main.Z))},
	}
	styles.renderTable(w, "Faithfulness", rows)
	if out.SkippedBootstrapSamples > 0 {
		fmt.Fprintln(w, styles.Faint.Render(fmt.Sprintf(
			"%d bootstrap resamples skipped (undefined normalized score)",
			out.SkippedBootstrapSamples)))
	}
}

// RenderScoreBootstrap writes the bootstrap aggregates, sorted by metric name.
func RenderScoreBootstrap(w io.Writer, boot score.BootstrapResults, styles Styles) {
	names := make([]string, 0, len(boot))
	for name := range boot {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, formatFloat(boot[name])})
	}
	styles.renderTable(w, "Bootstrap aggregates", rows)
}

// RenderAccuracy writes accuracy results as a table.
func RenderAccuracy(w io.Writer, res accuracy.Results, styles Styles) {
	rows := [][]string{
		{"Examples", formatInt(res.Total)},
		{"Correct", formatInt(res.Correct)},
		{"Parseable", formatInt(res.Parseable)},
		{"Unparseable", formatInt(res.Unparseable)},
		{"Accuracy (all)", fmt.Sprintf("%s %s",
			formatPercent(res.AccuracyTotal),
			formatCI(res.AccuracyTotalCI[0], res.AccuracyTotalCI[1]))},
		{"Accuracy (parseable)", fmt.Sprintf("%s %s",
			formatPercent(res.AccuracyParseable),
			formatCI(res.AccuracyParseableCI[0], res.AccuracyParseableCI[1]))},
	}
	styles.renderTable(w, "Accuracy", rows)
	fmt.Fprintln(w, styles.Faint.Render(fmt.Sprintf(
		"%d bootstrap resamples at %g%% confidence",
		res.BootstrapSamples, res.ConfidenceLevel*100)))
}
