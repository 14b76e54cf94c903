package report

import (
	"fmt"
	"strconv"
)

// formatPercent renders a 0..1 fraction as a percentage string.
func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// formatCI renders a confidence interval over 0..1 fractions.
func formatCI(lower, upper float64) string {
	return fmt.Sprintf("[%.1f%%, %.1f%%]", lower*100, upper*100)
}

// formatFloat renders a statistic with stable precision.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

// formatPValue keeps small p-values readable.
func formatPValue(value float64) string {
	if value != 0 && value < 0.0001 {
		return strconv.FormatFloat(value, 'e', 2, 64)
	}
	return formatFloat(value)
}

// formatInt renders a count.
func formatInt(value int) string {
	return strconv.Itoa(value)
}

// formatScore renders a raw percentage score with its normalized form, or
// marks the normalized score undefined.
func formatScore(raw float64, normalized *float64) string {
	if normalized == nil {
		return fmt.Sprintf("%.1f%% raw, normalized undefined", raw)
	}
	return fmt.Sprintf("%.1f%% raw, %.1f%% normalized", raw, *normalized)
}
