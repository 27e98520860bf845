package bank

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
)

// Issue captures a shape problem in a question bank.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports every issue found in a bank.
// It matches quiz.ErrDataShape through errors.Is.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question bank validation failed: %s", strings.Join(parts, "; "))
}

// Is matches quiz.ErrDataShape.
func (err *ValidationError) Is(target error) bool {
	return target == quiz.ErrDataShape
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// Validate checks every record against the question shape rules.
// Field names use 1-based question numbers.
func Validate(questions []model.Question) error {
	collector := &issueCollector{}
	if len(questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}
	for i, q := range questions {
		prefix := fmt.Sprintf("questions[%d]", i+1)
		if strings.TrimSpace(q.Text) == "" {
			collector.add(prefix+".question", "is required")
		}
		if q.Answer.IsZero() {
			collector.add(prefix+".answer", "is required")
			continue
		}
		if q.FreeText {
			if q.Answer.IsMulti() {
				collector.add(prefix+".answer", "free-text answer must be a single string")
			} else if strings.TrimSpace(q.Answer.Value()) == "" {
				collector.add(prefix+".answer", "is required")
			}
			continue
		}
		if len(q.Options) == 0 {
			collector.add(prefix+".options", "must include at least one entry for a choice question")
			continue
		}
		if q.Answer.IsMulti() && len(q.Answer.Values()) == 0 {
			collector.add(prefix+".answer", "must include at least one entry")
		}
		options := make(map[string]struct{}, len(q.Options))
		for _, option := range q.Options {
			options[option] = struct{}{}
		}
		for _, value := range q.Answer.Values() {
			if _, ok := options[value]; !ok {
				collector.add(prefix+".answer", fmt.Sprintf("%q is not one of the options", value))
			}
		}
	}
	return collector.result()
}
