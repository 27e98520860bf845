package quiz

import "github.com/verte-zerg/tuiquiz/internal/model"

// Summarize derives the end-of-session report from an ended session.
func Summarize(s *Session) (model.Summary, error) {
	const op = "summarize"
	if s.Phase() != PhaseEnded {
		return model.Summary{}, contractErr(op, "session is %s, not ended", s.Phase())
	}
	total := len(s.items)
	answered := s.Answered()
	return model.Summary{
		Total:        total,
		Answered:     answered,
		Correct:      s.correct,
		ScorePercent: 100 * float64(s.correct) / float64(total),
		EndedEarly:   answered < total,
		ReviewItems:  s.WrongLog(),
	}, nil
}
