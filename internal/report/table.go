package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// metric is one labelled row of the score table.
type metric struct {
	label string
	value string
}

// scoreTable lays metrics out as a label, a dot leader and a right-aligned
// value. Every row ends in the same display column.
func scoreTable(metrics []metric) []string {
	labelWidth, valueWidth := 0, 0
	for _, m := range metrics {
		labelWidth = max(labelWidth, runewidth.StringWidth(m.label))
		valueWidth = max(valueWidth, runewidth.StringWidth(m.value))
	}

	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		leader := strings.Repeat(".", labelWidth-runewidth.StringWidth(m.label)+2)
		pad := strings.Repeat(" ", valueWidth-runewidth.StringWidth(m.value))
		lines = append(lines, m.label+" "+leader+" "+pad+m.value)
	}
	return lines
}

func summaryMetrics(total, answered, correct, unanswered int, score float64) []metric {
	return []metric{
		{"Total Questions", itoa(total)},
		{"Answered Questions", itoa(answered)},
		{"Correct Answers", itoa(correct)},
		{"Unanswered", itoa(unanswered)},
		{"Score", formatPercent(score)},
	}
}
