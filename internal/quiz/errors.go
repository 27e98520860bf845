// Package quiz implements the quiz session core: selection, grading,
// the session state machine and the summary reporter.
//
// The package performs no I/O and no locking. A Session is owned by a single
// caller which must serialize calls against it.
package quiz

import (
	"errors"
	"fmt"
)

// Kind discriminates core errors.
type Kind int

// Error kinds.
const (
	KindConfiguration Kind = iota + 1
	KindContract
	KindDataShape
)

// Sentinels matched by errors.Is against *Error values of the same kind.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrContractViolation = errors.New("contract violation")
	ErrDataShape         = errors.New("data shape error")
)

// Error is returned by every failing core operation.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.sentinel(), e.Detail)
}

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindConfiguration:
		return ErrConfiguration
	case KindContract:
		return ErrContractViolation
	case KindDataShape:
		return ErrDataShape
	default:
		return nil
	}
}

func configErr(op, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func contractErr(op, format string, args ...any) error {
	return &Error{Kind: KindContract, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func shapeErr(op, format string, args ...any) error {
	return &Error{Kind: KindDataShape, Op: op, Detail: fmt.Sprintf(format, args...)}
}
