package quiz

import "github.com/verte-zerg/tuiquiz/internal/model"

// Phase is the lifecycle state of a Session.
type Phase int

// Session phases.
const (
	PhaseConfiguring Phase = iota
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseConfiguring:
		return "configuring"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session tracks progress through one working set.
// The zero value is a session in the configuring phase.
type Session struct {
	items     []model.WorkingItem
	position  int
	answers   []*model.Answer
	correct   int
	wrong     []model.WrongRecord
	ended     bool
	committed bool
}

// NewSession returns a session ready for Start.
func NewSession() *Session {
	return &Session{}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	switch {
	case !s.committed:
		return PhaseConfiguring
	case s.ended:
		return PhaseEnded
	default:
		return PhaseActive
	}
}

// Start commits the working set and activates the session. Every item must
// be gradable; a malformed record is rejected here so that a started session
// can always advance.
func (s *Session) Start(items []model.WorkingItem) error {
	const op = "start"
	if s.committed {
		return contractErr(op, "session already started; reset first")
	}
	if len(items) == 0 {
		return configErr(op, "working set is empty")
	}
	for _, item := range items {
		if err := CheckShape(item.Question); err != nil {
			return shapeErr(op, "question %d: %s", item.OriginalIndex, detailOf(err))
		}
	}
	s.items = make([]model.WorkingItem, len(items))
	copy(s.items, items)
	s.answers = make([]*model.Answer, len(items))
	s.position = 0
	s.correct = 0
	s.wrong = nil
	s.ended = false
	s.committed = true
	return nil
}

// Current returns the item awaiting an answer.
func (s *Session) Current() (model.WorkingItem, error) {
	if err := s.requireActive("current"); err != nil {
		return model.WorkingItem{}, err
	}
	return s.items[s.position], nil
}

// Position returns the 0-based position of the current item.
func (s *Session) Position() int {
	return s.position
}

// Len returns the size of the working set.
func (s *Session) Len() int {
	return len(s.items)
}

// CorrectCount returns the number of correct submissions so far.
func (s *Session) CorrectCount() int {
	return s.correct
}

// WrongLog returns a copy of the wrong-answer log in recording order.
func (s *Session) WrongLog() []model.WrongRecord {
	out := make([]model.WrongRecord, len(s.wrong))
	copy(out, s.wrong)
	return out
}

// Answered returns the number of graded positions.
func (s *Session) Answered() int {
	n := 0
	for _, a := range s.answers {
		if a != nil {
			n++
		}
	}
	return n
}

// Submit grades an answer for the current item and advances.
// A rejected call leaves the session unchanged.
func (s *Session) Submit(submitted model.Answer) (model.Feedback, error) {
	const op = "submit"
	if err := s.requireActive(op); err != nil {
		return model.Feedback{}, err
	}
	if s.answers[s.position] != nil {
		return model.Feedback{}, contractErr(op, "position %d already answered", s.position)
	}
	item := s.items[s.position]
	correct, err := Grade(item.Question, submitted)
	if err != nil {
		return model.Feedback{}, err
	}

	stored := submitted
	s.answers[s.position] = &stored
	if correct {
		s.correct++
	} else {
		s.wrong = append(s.wrong, wrongRecord(item, submitted))
	}
	if s.position == len(s.items)-1 {
		s.ended = true
	} else {
		s.position++
	}
	return model.Feedback{
		Correct:     correct,
		Keywords:    cloneStrings(item.Question.Keywords),
		Explanation: item.Question.Explanation,
		Finished:    s.ended,
	}, nil
}

// EndEarly ends the session without grading the current item.
func (s *Session) EndEarly() error {
	if err := s.requireActive("end early"); err != nil {
		return err
	}
	s.ended = true
	return nil
}

// Reset discards all state and returns to the configuring phase.
func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) requireActive(op string) error {
	if !s.committed {
		return contractErr(op, "session not started")
	}
	if s.ended {
		return contractErr(op, "session already ended")
	}
	return nil
}

func wrongRecord(item model.WorkingItem, submitted model.Answer) model.WrongRecord {
	q := item.Question
	return model.WrongRecord{
		OriginalIndex: item.OriginalIndex,
		Question:      q.Text,
		YourAnswer:    submitted,
		CorrectAnswer: q.Answer,
		Keywords:      cloneStrings(q.Keywords),
		Explanation:   q.Explanation,
		Options:       cloneStrings(q.Options),
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
