package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/tuiquiz/internal/quiz"
)

func writeFile(t *testing.T, dir, name, payload string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "aws.json", `[
  {
    "question": "Which services are serverless? (SELECT TWO)",
    "options": ["Lambda", "EC2", "Fargate"],
    "answer": ["Lambda", "Fargate"],
    "keywords": ["serverless"],
    "explanation": "No servers to manage."
  },
  {
    "question": "Print the value",
    "code": "print(x)",
    "input_field": true,
    "answer": "x"
  },
  {
    "question": "Pick one",
    "options": ["A", "B"],
    "answer": "B"
  }
]`)
	questions, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	multi := questions[0]
	if !multi.Answer.IsMulti() || len(multi.Answer.Values()) != 2 || multi.Keywords[0] != "serverless" {
		t.Fatalf("unexpected multi question: %+v", multi)
	}
	free := questions[1]
	if !free.FreeText || free.Code != "print(x)" || free.Answer.Value() != "x" {
		t.Fatalf("unexpected free-text question: %+v", free)
	}
	if questions[2].Answer.IsMulti() || questions[2].Answer.Value() != "B" {
		t.Fatalf("unexpected single question: %+v", questions[2])
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "go.yaml", `- question: Zero value of a map?
  options: ["nil", "{}"]
  answer: "nil"
  keywords: [maps]
- question: Pick the channel ops
  options: [send, receive, fork]
  answer: [send, receive]
`)
	questions, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Answer.Value() != "nil" {
		t.Fatalf("unexpected answer: %v", questions[0].Answer)
	}
	if !questions[1].Answer.IsMulti() {
		t.Fatalf("expected multi answer")
	}
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", `- question: Q
  options: [a]
  answer: a
  hint: nope
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadCollectsValidationIssues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `[
  {"question": "", "options": ["a"], "answer": "a"},
  {"question": "no options", "answer": "a"},
  {"question": "not an option", "options": ["a", "b"], "answer": ["a", "c"]},
  {"question": "free set", "input_field": true, "answer": ["a"]},
  {"question": "no answer", "options": ["a"]}
]`)
	_, err := Load(path)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Issues) != 5 {
		t.Fatalf("expected 5 issues, got %d: %v", len(validationErr.Issues), validationErr.Issues)
	}
	if validationErr.Issues[0].Field != "questions[1].question" {
		t.Fatalf("unexpected first issue: %+v", validationErr.Issues[0])
	}
	if !errors.Is(err, quiz.ErrDataShape) {
		t.Fatalf("expected validation error to match ErrDataShape")
	}
}

func TestLoadRejectsEmptyBank(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.json", `[]`)
	if _, err := Load(path); !errors.Is(err, quiz.ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
}

func TestListAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "[]")
	writeFile(t, dir, "a.json", "[]")
	writeFile(t, dir, "notes.txt", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	names, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.yaml" {
		t.Fatalf("unexpected names: %v", names)
	}
	if got := Resolve(dir, "a.json"); got != filepath.Join(dir, "a.json") {
		t.Fatalf("unexpected resolved path: %s", got)
	}
	if got := Resolve(dir, "./other/x.json"); got != "./other/x.json" {
		t.Fatalf("unexpected explicit path: %s", got)
	}
}

func TestNameSeparatesDirectories(t *testing.T) {
	a := filepath.Join(t.TempDir(), "quiz.json")
	b := filepath.Join(t.TempDir(), "quiz.json")
	if Name(a) == Name(b) {
		t.Fatalf("same-named banks in different directories share %q", Name(a))
	}
	if Name(a) != Name(filepath.Join(filepath.Dir(a), ".", "quiz.json")) {
		t.Fatalf("name should not depend on path spelling")
	}
	if !filepath.IsAbs(Name("quiz.json")) {
		t.Fatalf("relative path should resolve to an absolute name, got %q", Name("quiz.json"))
	}
}
