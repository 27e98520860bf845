package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
)

func sampleItems() []model.WorkingItem {
	return []model.WorkingItem{
		{OriginalIndex: 2, Question: model.Question{
			Text:        "Pick the serverless services",
			Options:     []string{"Lambda", "EC2", "Fargate"},
			Answer:      model.Multi("Lambda", "Fargate"),
			Keywords:    []string{"serverless"},
			Explanation: "No servers to manage.",
		}},
		{OriginalIndex: 3, Question: model.Question{
			Text:    "Zero value of a map?",
			Options: []string{"nil", "{}"},
			Answer:  model.Single("nil"),
		}},
		{OriginalIndex: 4, Question: model.Question{
			Text:     "What does this print?",
			Code:     "fmt.Println(1 + 1)",
			FreeText: true,
			Answer:   model.Single("2"),
		}},
	}
}

func TestParseAnswer(t *testing.T) {
	items := sampleItems()
	multi, single, free := items[0].Question, items[1].Question, items[2].Question

	got, err := ParseAnswer(multi, "3, 1,3")
	if err != nil {
		t.Fatalf("parse multi: %v", err)
	}
	if got.String() != "[Fargate, Lambda]" {
		t.Fatalf("unexpected multi answer: %s", got)
	}
	got, err = ParseAnswer(single, " NIL ")
	if err != nil || got.IsMulti() || got.Value() != "nil" {
		t.Fatalf("unexpected single answer: %v, %v", got, err)
	}
	if _, err := ParseAnswer(single, "1,2"); err == nil {
		t.Fatalf("expected error for two options on single-select")
	}
	if _, err := ParseAnswer(single, "5"); err == nil {
		t.Fatalf("expected error for out-of-range option")
	}
	if _, err := ParseAnswer(single, "  "); err == nil {
		t.Fatalf("expected error for empty answer")
	}
	got, err = ParseAnswer(free, "  2 ")
	if err != nil || got.Value() != "  2 " {
		t.Fatalf("free text should be kept as typed, got %q, %v", got.Value(), err)
	}
}

func TestRunScoresSession(t *testing.T) {
	in := strings.NewReader("1,3\nbogus\n2\n 2\n")
	var out bytes.Buffer
	sum, err := New(in, &out).Run(context.Background(), sampleItems())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Total != 3 || sum.Answered != 3 || sum.Correct != 2 || sum.EndedEarly {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(sum.ReviewItems) != 1 || sum.ReviewItems[0].OriginalIndex != 3 {
		t.Fatalf("unexpected review items: %+v", sum.ReviewItems)
	}
	text := out.String()
	for _, want := range []string{
		"Question 1/3 (#2)",
		"  3) Fargate",
		"Correct!",
		"Keywords: serverless",
		`Invalid answer: unknown option "bogus"`,
		"Incorrect.",
		"Explanation: No explanation provided.",
		"fmt.Println(1 + 1)",
		"Question 3 (miss #1)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunEndsEarly(t *testing.T) {
	in := strings.NewReader("Lambda\n:end\n")
	var out bytes.Buffer
	sum, err := New(in, &out).Run(context.Background(), sampleItems())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !sum.EndedEarly || sum.Answered != 1 || sum.Correct != 0 || sum.Unanswered() != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	for _, want := range []string{"You ended the quiz early.", "Thank you for participating!"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	sum, err := New(strings.NewReader(""), &out).Run(context.Background(), sampleItems())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !sum.EndedEarly || sum.Answered != 0 || sum.ScorePercent != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRunRejectsEmptyWorkingSet(t *testing.T) {
	var out bytes.Buffer
	if _, err := New(strings.NewReader(""), &out).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty working set")
	}
}

func TestRunReadsMultiLineText(t *testing.T) {
	items := []model.WorkingItem{{OriginalIndex: 1, Question: model.Question{
		Text:     "Print two lines",
		FreeText: true,
		Answer:   model.Single("line1\nline2"),
	}}}
	var out bytes.Buffer
	sum, err := New(strings.NewReader("line1\nline2\n.\n"), &out).Run(context.Background(), items)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Correct != 1 || sum.EndedEarly {
		t.Fatalf("expected multi-line answer to grade correct, got %+v\n%s", sum, out.String())
	}
	if !strings.Contains(out.String(), "You have completed the quiz!") {
		t.Fatalf("missing completion notice:\n%s", out.String())
	}

	sum, err = New(strings.NewReader("line1\n:end\n.\n"), &out).Run(context.Background(), items)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Correct != 0 || sum.Answered != 1 || sum.ReviewItems[0].YourAnswer.Value() != "line1\n:end" {
		t.Fatalf(":end after the first line belongs to the answer, got %+v", sum)
	}
}

func TestRunRejectsMalformedQuestionUpFront(t *testing.T) {
	items := append([]model.WorkingItem{{OriginalIndex: 9, Question: model.Question{
		Text:   "No options",
		Answer: model.Single("A"),
	}}}, sampleItems()...)
	var out bytes.Buffer
	_, err := New(strings.NewReader("1\n"), &out).Run(context.Background(), items)
	if !errors.Is(err, quiz.ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
	if strings.Contains(out.String(), "Question 1/") {
		t.Fatalf("no question should be asked before validation:\n%s", out.String())
	}
}
