// Package report renders quiz summaries as plain text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

const noExplanation = "No explanation provided."

// Keywords formats review keywords for display.
func Keywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// Explanation returns the explanation or a placeholder when empty.
func Explanation(explanation string) string {
	if strings.TrimSpace(explanation) == "" {
		return noExplanation
	}
	return explanation
}

// RenderSummary prints the score table and the completion or early-end
// notice.
func RenderSummary(w io.Writer, sum model.Summary) error {
	if _, err := fmt.Fprintln(w, "Quiz Summary"); err != nil {
		return err
	}
	metrics := summaryMetrics(sum.Total, sum.Answered, sum.Correct, sum.Unanswered(), sum.ScorePercent)
	for _, line := range scoreTable(metrics) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	notice := "You have completed the quiz!"
	if sum.EndedEarly {
		notice = "You ended the quiz early."
	}
	_, err := fmt.Fprintf(w, "%s\n\n", notice)
	return err
}

// RenderReview prints the wrong answers in the order they were recorded.
func RenderReview(w io.Writer, items []model.WrongRecord) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No incorrect answers.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Here are your incorrect answers:"); err != nil {
		return err
	}
	for i, item := range items {
		lines := []string{
			"",
			fmt.Sprintf("Question %d (miss #%d)", item.OriginalIndex, i+1),
			fmt.Sprintf("  Question:       %s", item.Question),
			fmt.Sprintf("  Your Answer:    %s", item.YourAnswer),
			fmt.Sprintf("  Correct Answer: %s", item.CorrectAnswer),
			fmt.Sprintf("  Keywords:       %s", Keywords(item.Keywords)),
			fmt.Sprintf("  Explanation:    %s", Explanation(item.Explanation)),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// Render prints the summary followed by the review and a closing line.
func Render(w io.Writer, sum model.Summary) error {
	if err := RenderSummary(w, sum); err != nil {
		return err
	}
	if err := RenderReview(w, sum.ReviewItems); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "Thank you for participating!")
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func formatPercent(score float64) string {
	return fmt.Sprintf("%.2f%%", score)
}
