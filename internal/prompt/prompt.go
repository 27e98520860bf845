// Package prompt runs a quiz session over a plain line-oriented stream.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/report"
)

const (
	// EndCommand ends the session early when entered instead of an answer.
	EndCommand = ":end"
	// TextTerminator alone on a line closes a free-text answer.
	TextTerminator = "."
)

// Host reads answers from in and writes questions, feedback and the report to out.
type Host struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a host over the given streams.
func New(in io.Reader, out io.Writer) *Host {
	return &Host{in: bufio.NewScanner(in), out: out}
}

// Run drives a session over items until it ends, then prints the report.
// End of input ends the session early.
func (h *Host) Run(ctx context.Context, items []model.WorkingItem) (model.Summary, error) {
	session := quiz.NewSession()
	if err := session.Start(items); err != nil {
		return model.Summary{}, err
	}

	for session.Phase() == quiz.PhaseActive {
		if err := ctx.Err(); err != nil {
			return model.Summary{}, err
		}
		item, err := session.Current()
		if err != nil {
			return model.Summary{}, err
		}
		if err := h.printQuestion(session.Position()+1, session.Len(), item); err != nil {
			return model.Summary{}, err
		}

		answer, end, err := h.readAnswer(item.Question)
		if err != nil {
			return model.Summary{}, err
		}
		if end {
			if err := session.EndEarly(); err != nil {
				return model.Summary{}, err
			}
			break
		}

		feedback, err := session.Submit(answer)
		if err != nil {
			return model.Summary{}, err
		}
		h.printFeedback(feedback)
	}

	sum, err := quiz.Summarize(session)
	if err != nil {
		return model.Summary{}, err
	}
	if err := report.Render(h.out, sum); err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// readAnswer prompts until a line parses for q.
// The boolean reports a request to end early.
func (h *Host) readAnswer(q model.Question) (model.Answer, bool, error) {
	if q.FreeText {
		return h.readText()
	}
	for {
		h.printf("> ")
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return model.Answer{}, false, fmt.Errorf("failed to read answer: %w", err)
			}
			h.printf("\n")
			return model.Answer{}, true, nil
		}
		line := h.in.Text()
		if strings.TrimSpace(line) == EndCommand {
			return model.Answer{}, true, nil
		}
		answer, err := ParseAnswer(q, line)
		if err != nil {
			h.printf("Invalid answer: %v\n", err)
			continue
		}
		return answer, false, nil
	}
}

// readText collects lines up to a lone TextTerminator and keeps the line
// breaks. End of input submits what was collected, or ends early when
// nothing was.
func (h *Host) readText() (model.Answer, bool, error) {
	h.printf("> ")
	var lines []string
	for h.in.Scan() {
		line := h.in.Text()
		if len(lines) == 0 && strings.TrimSpace(line) == EndCommand {
			return model.Answer{}, true, nil
		}
		if line == TextTerminator {
			return model.Single(strings.Join(lines, "\n")), false, nil
		}
		lines = append(lines, line)
	}
	if err := h.in.Err(); err != nil {
		return model.Answer{}, false, fmt.Errorf("failed to read answer: %w", err)
	}
	if len(lines) == 0 {
		h.printf("\n")
		return model.Answer{}, true, nil
	}
	return model.Single(strings.Join(lines, "\n")), false, nil
}

// ParseAnswer converts an input line into a submission for q.
// Choice questions accept option numbers ("2", "1,3") or option text.
// Free-text questions take the line as typed.
func ParseAnswer(q model.Question, line string) (model.Answer, error) {
	if q.FreeText {
		return model.Single(line), nil
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return model.Answer{}, errors.New("empty answer")
	}

	var values []string
	if option, ok := matchOption(q.Options, trimmed); ok {
		values = []string{option}
	} else {
		for _, part := range strings.Split(trimmed, ",") {
			option, ok := matchOption(q.Options, strings.TrimSpace(part))
			if !ok {
				return model.Answer{}, fmt.Errorf("unknown option %q", strings.TrimSpace(part))
			}
			values = append(values, option)
		}
	}

	if q.Answer.IsMulti() {
		return model.Multi(dedupe(values)...), nil
	}
	if len(values) != 1 {
		return model.Answer{}, errors.New("choose exactly one option")
	}
	return model.Single(values[0]), nil
}

func matchOption(options []string, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, option := range options {
		if strings.EqualFold(option, token) {
			return option, true
		}
	}
	return "", false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (h *Host) printQuestion(pos, total int, item model.WorkingItem) error {
	q := item.Question
	if _, err := fmt.Fprintf(h.out, "\nQuestion %d/%d (#%d)\n%s\n", pos, total, item.OriginalIndex, q.Text); err != nil {
		return err
	}
	if q.Code != "" {
		if _, err := fmt.Fprintf(h.out, "\n%s\n\n", strings.TrimRight(q.Code, "\n")); err != nil {
			return err
		}
	}
	if q.FreeText {
		_, err := fmt.Fprintf(h.out, "Type your answer, then %q on its own line (%s to finish).\n", TextTerminator, EndCommand)
		return err
	}
	for i, option := range q.Options {
		if _, err := fmt.Fprintf(h.out, "  %d) %s\n", i+1, option); err != nil {
			return err
		}
	}
	hint := "Enter one option number"
	if q.Answer.IsMulti() {
		hint = "Enter option numbers separated by commas"
	}
	_, err := fmt.Fprintf(h.out, "%s (%s to finish).\n", hint, EndCommand)
	return err
}

func (h *Host) printFeedback(feedback model.Feedback) {
	if feedback.Correct {
		h.printf("Correct!\n")
	} else {
		h.printf("Incorrect.\n")
	}
	h.printf("Keywords: %s\n", report.Keywords(feedback.Keywords))
	h.printf("Explanation: %s\n", report.Explanation(feedback.Explanation))
}

func (h *Host) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(h.out, format, args...)
}
