package quiz

import (
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// Params carries the inputs of every selection mode.
// Zero Start and End default to the first and last question. A nil Seed
// seeds random mode from the clock; any set value, zero included, is
// reproducible.
type Params struct {
	Mode   model.Mode
	Start  int
	End    int
	Count  int
	Seed   *int64
	Memory []int
}

// ParseMode maps a user-facing mode name to a Mode.
// "customer" is accepted as an alias of recall.
func ParseMode(name string) (model.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "range":
		return model.ModeRange, nil
	case "recall", "customer":
		return model.ModeRecall, nil
	case "random":
		return model.ModeRandom, nil
	default:
		return "", configErr("parse mode", "unknown mode %q (want range, recall or random)", name)
	}
}

// StrategyFor builds the strategy described by p for a bank of bankLen questions.
func StrategyFor(p Params, bankLen int) (Strategy, error) {
	switch p.Mode {
	case model.ModeRange, "":
		r := Range{Start: p.Start, End: p.End}
		if r.Start == 0 {
			r.Start = 1
		}
		if r.End == 0 {
			r.End = bankLen
		}
		return r, nil
	case model.ModeRecall:
		return Recall{Memory: p.Memory}, nil
	case model.ModeRandom:
		if p.Seed == nil {
			return Random{Count: p.Count}, nil
		}
		return NewRandom(p.Count, *p.Seed), nil
	default:
		return nil, configErr("strategy", "unknown mode %q", p.Mode)
	}
}

// Select builds the working set for p.
func Select(bank []model.Question, p Params) ([]model.WorkingItem, error) {
	strategy, err := StrategyFor(p, len(bank))
	if err != nil {
		return nil, err
	}
	return strategy.Select(bank)
}
