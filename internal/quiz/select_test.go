package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

func testBank(n int) []model.Question {
	bank := make([]model.Question, n)
	for i := range bank {
		bank[i] = model.Question{
			Text:        fmt.Sprintf("Question %d", i+1),
			Options:     []string{"A", "B", "C"},
			Answer:      model.Single("A"),
			Keywords:    []string{fmt.Sprintf("kw%d", i+1)},
			Explanation: fmt.Sprintf("because %d", i+1),
		}
	}
	return bank
}

func TestRangeSelectsConsecutiveIndices(t *testing.T) {
	bank := testBank(10)
	for start := 1; start <= len(bank); start++ {
		for end := start; end <= len(bank); end++ {
			items, err := Range{Start: start, End: end}.Select(bank)
			if err != nil {
				t.Fatalf("range %d..%d: %v", start, end, err)
			}
			if len(items) != end-start+1 {
				t.Fatalf("range %d..%d: expected %d items, got %d", start, end, end-start+1, len(items))
			}
			for i, item := range items {
				if item.OriginalIndex != start+i {
					t.Fatalf("range %d..%d: item %d has index %d", start, end, i, item.OriginalIndex)
				}
				if item.Question.Text != bank[start+i-1].Text {
					t.Fatalf("range %d..%d: item %d has wrong question", start, end, i)
				}
			}
		}
	}
}

func TestRangeRejectsInvalidBounds(t *testing.T) {
	bank := testBank(5)
	for _, r := range []Range{{Start: 4, End: 2}, {Start: 0, End: 2}, {Start: 2, End: 6}} {
		items, err := r.Select(bank)
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("range %d..%d: expected configuration error, got %v", r.Start, r.End, err)
		}
		if items != nil {
			t.Fatalf("range %d..%d: expected no items", r.Start, r.End)
		}
	}
	if _, err := (Range{Start: 1, End: 1}).Select(nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for empty bank, got %v", err)
	}
}

func TestRecallSelectsMissedQuestionsInBankOrder(t *testing.T) {
	bank := testBank(6)
	items, err := Recall{Memory: []int{5, 2, 3}}.Select(bank)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	want := []int{2, 3, 5}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, item := range items {
		if item.OriginalIndex != want[i] {
			t.Fatalf("item %d: expected index %d, got %d", i, want[i], item.OriginalIndex)
		}
		if item.Question.Text != bank[want[i]-1].Text {
			t.Fatalf("item %d: wrong question %q", i, item.Question.Text)
		}
	}
}

func TestRecallRejectsEmptyDuplicateAndOutOfRangeMemory(t *testing.T) {
	bank := testBank(4)
	for _, memory := range [][]int{nil, {1, 1}, {0}, {5}} {
		if _, err := (Recall{Memory: memory}).Select(bank); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("memory %v: expected configuration error, got %v", memory, err)
		}
	}
}

func TestMemoryFromLogDedupes(t *testing.T) {
	log := []model.WrongRecord{{OriginalIndex: 4}, {OriginalIndex: 2}, {OriginalIndex: 4}}
	memory := MemoryFromLog(log)
	if len(memory) != 2 || memory[0] != 4 || memory[1] != 2 {
		t.Fatalf("unexpected memory: %v", memory)
	}
}

func TestRandomSamplesWithoutReplacement(t *testing.T) {
	bank := testBank(20)
	items, err := NewRandom(7, 42).Select(bank)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	seen := map[int]bool{}
	for _, item := range items {
		if item.OriginalIndex < 1 || item.OriginalIndex > len(bank) {
			t.Fatalf("index %d out of bank", item.OriginalIndex)
		}
		if seen[item.OriginalIndex] {
			t.Fatalf("index %d sampled twice", item.OriginalIndex)
		}
		seen[item.OriginalIndex] = true
		if item.Question.Text != bank[item.OriginalIndex-1].Text {
			t.Fatalf("index %d does not match its question", item.OriginalIndex)
		}
	}
}

func TestRandomIsDeterministicForSeed(t *testing.T) {
	bank := testBank(15)
	a, err := Random{Count: 5, Rand: rand.New(rand.NewSource(7))}.Select(bank)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	b, err := Random{Count: 5, Rand: rand.New(rand.NewSource(7))}.Select(bank)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	for i := range a {
		if a[i].OriginalIndex != b[i].OriginalIndex {
			t.Fatalf("seeded samples differ at %d: %d vs %d", i, a[i].OriginalIndex, b[i].OriginalIndex)
		}
	}
}

func TestRandomDefaultsToWholeBank(t *testing.T) {
	bank := testBank(5)
	items, err := NewRandom(0, 1).Select(bank)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(items) != len(bank) {
		t.Fatalf("expected whole bank, got %d items", len(items))
	}
	for _, count := range []int{-1, 6} {
		if _, err := NewRandom(count, 1).Select(bank); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("count %d: expected configuration error, got %v", count, err)
		}
	}
}

func TestSelectReportsMalformedQuestion(t *testing.T) {
	bank := testBank(3)
	bank[1].Options = nil
	_, err := Range{Start: 1, End: 3}.Select(bank)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
	if _, err := (Range{Start: 3, End: 3}).Select(bank); err != nil {
		t.Fatalf("range avoiding the malformed question failed: %v", err)
	}
}

func TestStrategyModes(t *testing.T) {
	strategies := map[model.Mode]Strategy{
		model.ModeRange:  Range{},
		model.ModeRecall: Recall{},
		model.ModeRandom: Random{},
	}
	for mode, s := range strategies {
		if s.Mode() != mode {
			t.Fatalf("expected mode %s, got %s", mode, s.Mode())
		}
	}
}
