package quiz

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// Strategy builds the working set of a session from a question bank.
type Strategy interface {
	Mode() model.Mode
	Select(bank []model.Question) ([]model.WorkingItem, error)
}

// Range selects the contiguous 1-based inclusive range Start..End.
type Range struct {
	Start int
	End   int
}

// Mode implements Strategy.
func (Range) Mode() model.Mode { return model.ModeRange }

// Select implements Strategy.
func (r Range) Select(bank []model.Question) ([]model.WorkingItem, error) {
	const op = "select range"
	if len(bank) == 0 {
		return nil, configErr(op, "question bank is empty")
	}
	if r.Start > r.End {
		return nil, configErr(op, "start %d must be less than or equal to end %d", r.Start, r.End)
	}
	if r.Start < 1 || r.End > len(bank) {
		return nil, configErr(op, "range %d..%d is outside 1..%d", r.Start, r.End, len(bank))
	}
	items := make([]model.WorkingItem, 0, r.End-r.Start+1)
	for idx := r.Start; idx <= r.End; idx++ {
		items = append(items, model.WorkingItem{Question: bank[idx-1], OriginalIndex: idx})
	}
	return validated(items)
}

// Recall selects previously missed questions by their original indices.
type Recall struct {
	Memory []int
}

// Mode implements Strategy.
func (Recall) Mode() model.Mode { return model.ModeRecall }

// Select implements Strategy. Items come out in bank order.
func (r Recall) Select(bank []model.Question) ([]model.WorkingItem, error) {
	const op = "select recall"
	if len(bank) == 0 {
		return nil, configErr(op, "question bank is empty")
	}
	if len(r.Memory) == 0 {
		return nil, configErr(op, "nothing to practice: no missed questions recorded")
	}
	seen := make(map[int]struct{}, len(r.Memory))
	indices := make([]int, 0, len(r.Memory))
	for _, idx := range r.Memory {
		if idx < 1 || idx > len(bank) {
			return nil, configErr(op, "missed question %d is outside 1..%d", idx, len(bank))
		}
		if _, dup := seen[idx]; dup {
			return nil, configErr(op, "missed question %d is listed more than once", idx)
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	items := make([]model.WorkingItem, 0, len(indices))
	for _, idx := range indices {
		items = append(items, model.WorkingItem{Question: bank[idx-1], OriginalIndex: idx})
	}
	return validated(items)
}

// MemoryFromLog extracts the original indices of a wrong-answer log.
func MemoryFromLog(log []model.WrongRecord) []int {
	out := make([]int, 0, len(log))
	seen := make(map[int]struct{}, len(log))
	for _, rec := range log {
		if _, ok := seen[rec.OriginalIndex]; ok {
			continue
		}
		seen[rec.OriginalIndex] = struct{}{}
		out = append(out, rec.OriginalIndex)
	}
	return out
}

// Random samples Count questions without replacement in shuffled order.
// A zero Count samples the whole bank. A nil Rand is seeded from the clock.
type Random struct {
	Count int
	Rand  *rand.Rand
}

// NewRandom returns a Random strategy seeded with seed.
func NewRandom(count int, seed int64) Random {
	return Random{Count: count, Rand: rand.New(rand.NewSource(seed))}
}

// Mode implements Strategy.
func (Random) Mode() model.Mode { return model.ModeRandom }

// Select implements Strategy.
func (r Random) Select(bank []model.Question) ([]model.WorkingItem, error) {
	const op = "select random"
	if len(bank) == 0 {
		return nil, configErr(op, "question bank is empty")
	}
	count := r.Count
	if count == 0 {
		count = len(bank)
	}
	if count < 1 || count > len(bank) {
		return nil, configErr(op, "count %d is outside 1..%d", r.Count, len(bank))
	}
	rnd := r.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	perm := rnd.Perm(len(bank))[:count]
	items := make([]model.WorkingItem, 0, count)
	for _, pos := range perm {
		items = append(items, model.WorkingItem{Question: bank[pos], OriginalIndex: pos + 1})
	}
	return validated(items)
}

func validated(items []model.WorkingItem) ([]model.WorkingItem, error) {
	for _, item := range items {
		if err := CheckShape(item.Question); err != nil {
			return nil, shapeErr("select", "question %d: %s", item.OriginalIndex, detailOf(err))
		}
	}
	return items, nil
}

func detailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return err.Error()
}
