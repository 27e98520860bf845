package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Answer is either a single value or a set of values.
// Bank files encode it as a string or a list of strings.
type Answer struct {
	values []string
	multi  bool
}

// Single builds a single-value answer.
func Single(value string) Answer {
	return Answer{values: []string{value}}
}

// Multi builds a set answer. Order and duplicates are kept as given.
func Multi(values ...string) Answer {
	out := make([]string, len(values))
	copy(out, values)
	return Answer{values: out, multi: true}
}

// IsMulti reports whether the answer is a set.
func (a Answer) IsMulti() bool {
	return a.multi
}

// IsZero reports whether the answer was never set.
func (a Answer) IsZero() bool {
	return !a.multi && len(a.values) == 0
}

// Value returns the single value, or "" for a set answer.
func (a Answer) Value() string {
	if a.multi || len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Values returns a copy of the answer values.
func (a Answer) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// String formats the answer for display.
func (a Answer) String() string {
	if a.multi {
		return "[" + strings.Join(a.values, ", ") + "]"
	}
	return a.Value()
}

// MarshalJSON implements json.Marshaler.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		values := a.values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(a.Value())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Single(single)
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err != nil {
		return fmt.Errorf("answer must be a string or a list of strings")
	}
	*a = Multi(multi...)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*a = Single(single)
		return nil
	case yaml.SequenceNode:
		var multi []string
		if err := node.Decode(&multi); err != nil {
			return err
		}
		*a = Multi(multi...)
		return nil
	default:
		return fmt.Errorf("line %d: answer must be a string or a list of strings", node.Line)
	}
}
