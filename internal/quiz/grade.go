package quiz

import (
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// CheckShape verifies that a question record is gradable.
func CheckShape(q model.Question) error {
	const op = "check"
	if q.FreeText {
		if q.Answer.IsMulti() {
			return shapeErr(op, "free-text question has a set answer")
		}
		return nil
	}
	if len(q.Options) == 0 {
		return shapeErr(op, "choice question has no options")
	}
	if q.Answer.IsZero() {
		return shapeErr(op, "choice question has no answer")
	}
	options := toSet(q.Options)
	for _, v := range q.Answer.Values() {
		if _, ok := options[v]; !ok {
			return shapeErr(op, "answer %q is not one of the options", v)
		}
	}
	return nil
}

// Grade reports whether submitted is the correct answer to q.
//
// Free-text answers match after trimming surrounding whitespace, case
// sensitive. Set answers match as sets with no partial credit. Single
// answers match by exact equality.
func Grade(q model.Question, submitted model.Answer) (bool, error) {
	const op = "grade"
	if err := CheckShape(q); err != nil {
		return false, err
	}
	switch {
	case q.FreeText:
		if submitted.IsMulti() {
			return false, contractErr(op, "free-text question expects a single value")
		}
		return strings.TrimSpace(submitted.Value()) == strings.TrimSpace(q.Answer.Value()), nil
	case q.Answer.IsMulti():
		if !submitted.IsMulti() {
			return false, contractErr(op, "multi-select question expects a set of values")
		}
		return setEqual(toSet(q.Answer.Values()), toSet(submitted.Values())), nil
	default:
		if submitted.IsMulti() {
			return false, contractErr(op, "single-select question expects a single value")
		}
		return submitted.Value() == q.Answer.Value(), nil
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
