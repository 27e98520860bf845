//go:build cucumber

package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// TestSessionScenarios runs the session feature scenarios.
func TestSessionScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features", "session.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSessionScenario wires steps for session scenarios.
func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a bank of (\d+) choice questions answered "([^"]*)"$`, state.givenBank)
	ctx.Step(`^the range (\d+) to (\d+) is selected$`, state.selectRange)
	ctx.Step(`^(\d+) random questions are selected with seed (\d+)$`, state.selectRandom)
	ctx.Step(`^the missed questions "([^"]*)" are selected$`, state.selectRecall)
	ctx.Step(`^I answer "([^"]*)"$`, state.answer)
	ctx.Step(`^I answer "([^"]*)" again$`, state.answerAgain)
	ctx.Step(`^I end the session early$`, state.endEarly)
	ctx.Step(`^the summary shows (\d+) total, (\d+) answered and (\d+) correct$`, state.thenSummary)
	ctx.Step(`^the score is "([^"]*)"$`, state.thenScore)
	ctx.Step(`^the session ended early$`, state.thenEndedEarly)
	ctx.Step(`^the session did not end early$`, state.thenNotEndedEarly)
	ctx.Step(`^the review lists original questions "([^"]*)"$`, state.thenReview)
	ctx.Step(`^the working set holds original questions "([^"]*)"$`, state.thenWorkingSet)
	ctx.Step(`^selection fails with a configuration error$`, state.thenConfigError)
	ctx.Step(`^the answer is rejected as a contract violation$`, state.thenContractViolation)
}

type sessionScenarioState struct {
	bank      []model.Question
	items     []model.WorkingItem
	session   *Session
	selectErr error
	lastErr   error
}

// reset clears scenario state.
func (s *sessionScenarioState) reset() {
	*s = sessionScenarioState{session: NewSession()}
}

func (s *sessionScenarioState) givenBank(n int, answer string) error {
	s.bank = make([]model.Question, n)
	for i := range s.bank {
		s.bank[i] = model.Question{
			Text:    fmt.Sprintf("Question %d", i+1),
			Options: []string{"A", "B"},
			Answer:  model.Single(answer),
		}
	}
	return nil
}

func (s *sessionScenarioState) start(strategy Strategy) error {
	s.items, s.selectErr = strategy.Select(s.bank)
	if s.selectErr != nil {
		return nil
	}
	return s.session.Start(s.items)
}

func (s *sessionScenarioState) selectRange(start, end int) error {
	return s.start(Range{Start: start, End: end})
}

func (s *sessionScenarioState) selectRandom(count int, seed int64) error {
	return s.start(NewRandom(count, seed))
}

func (s *sessionScenarioState) selectRecall(list string) error {
	memory, err := parseIndices(list)
	if err != nil {
		return err
	}
	return s.start(Recall{Memory: memory})
}

func (s *sessionScenarioState) answer(value string) error {
	_, err := s.session.Submit(model.Single(value))
	return err
}

func (s *sessionScenarioState) answerAgain(value string) error {
	_, s.lastErr = s.session.Submit(model.Single(value))
	return nil
}

func (s *sessionScenarioState) endEarly() error {
	return s.session.EndEarly()
}

func (s *sessionScenarioState) summary() (model.Summary, error) {
	return Summarize(s.session)
}

func (s *sessionScenarioState) thenSummary(total, answered, correct int) error {
	sum, err := s.summary()
	if err != nil {
		return err
	}
	if sum.Total != total || sum.Answered != answered || sum.Correct != correct {
		return fmt.Errorf("unexpected summary %+v", sum)
	}
	return nil
}

func (s *sessionScenarioState) thenScore(want string) error {
	sum, err := s.summary()
	if err != nil {
		return err
	}
	if got := fmt.Sprintf("%.2f", sum.ScorePercent); got != want {
		return fmt.Errorf("expected score %s, got %s", want, got)
	}
	return nil
}

func (s *sessionScenarioState) thenEndedEarly() error {
	sum, err := s.summary()
	if err != nil {
		return err
	}
	if !sum.EndedEarly {
		return fmt.Errorf("expected ended early")
	}
	return nil
}

func (s *sessionScenarioState) thenNotEndedEarly() error {
	sum, err := s.summary()
	if err != nil {
		return err
	}
	if sum.EndedEarly {
		return fmt.Errorf("expected a finished session")
	}
	return nil
}

func (s *sessionScenarioState) thenReview(list string) error {
	want, err := parseIndices(list)
	if err != nil {
		return err
	}
	sum, err := s.summary()
	if err != nil {
		return err
	}
	got := MemoryFromLog(sum.ReviewItems)
	return compareIndices(want, got)
}

func (s *sessionScenarioState) thenWorkingSet(list string) error {
	want, err := parseIndices(list)
	if err != nil {
		return err
	}
	got := make([]int, len(s.items))
	for i, item := range s.items {
		got[i] = item.OriginalIndex
	}
	return compareIndices(want, got)
}

func (s *sessionScenarioState) thenConfigError() error {
	if !errors.Is(s.selectErr, ErrConfiguration) {
		return fmt.Errorf("expected configuration error, got %v", s.selectErr)
	}
	return nil
}

func (s *sessionScenarioState) thenContractViolation() error {
	if !errors.Is(s.lastErr, ErrContractViolation) {
		return fmt.Errorf("expected contract violation, got %v", s.lastErr)
	}
	return nil
}

func parseIndices(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func compareIndices(want, got []int) error {
	if len(want) != len(got) {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("expected %v, got %v", want, got)
		}
	}
	return nil
}
