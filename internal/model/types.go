// Package model defines shared data structures.
package model

import "time"

// Mode names a selection strategy.
type Mode string

// Selection modes.
const (
	ModeRange  Mode = "range"
	ModeRecall Mode = "recall"
	ModeRandom Mode = "random"
)

// Config defines quiz settings merged from flags and the config file.
type Config struct {
	BankDir      string
	Bank         string
	Mode         Mode
	Start        int
	End          int
	Count        int
	Seed         *int64 // nil seeds random mode from the clock
	RecallWindow int
}

// Question is one record of a question bank.
type Question struct {
	Text        string   `json:"question" yaml:"question"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Answer      Answer   `json:"answer" yaml:"answer"`
	FreeText    bool     `json:"input_field,omitempty" yaml:"input_field,omitempty"`
	Code        string   `json:"code,omitempty" yaml:"code,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// WorkingItem pairs a question with its 1-based position in the bank.
type WorkingItem struct {
	Question      Question
	OriginalIndex int
}

// WrongRecord is a snapshot of an incorrectly answered question.
type WrongRecord struct {
	OriginalIndex int      `json:"original_index"`
	Question      string   `json:"question"`
	YourAnswer    Answer   `json:"your_answer"`
	CorrectAnswer Answer   `json:"correct_answer"`
	Keywords      []string `json:"keywords"`
	Explanation   string   `json:"explanation"`
	Options       []string `json:"options"`
}

// Feedback is returned for every graded submission.
type Feedback struct {
	Correct     bool
	Keywords    []string
	Explanation string
	Finished    bool
}

// Summary aggregates a finished session.
type Summary struct {
	Total        int
	Answered     int
	Correct      int
	ScorePercent float64
	EndedEarly   bool
	ReviewItems  []WrongRecord
}

// Unanswered returns the number of questions left without an answer.
func (s Summary) Unanswered() int {
	return s.Total - s.Answered
}

// SessionRecord captures a finished session for the history store.
type SessionRecord struct {
	ID        string
	Bank      string
	Mode      Mode
	StartedAt time.Time
	EndedAt   time.Time
	Summary   Summary
}
