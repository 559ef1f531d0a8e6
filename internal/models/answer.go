// internal/models/answer.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Missing is recorded in place of an answer when a question is skipped.
const Missing = "EKSİK"

// Value is a single answer: either a scalar string or an ordered list of
// strings picked from a multi-select question.
type Value struct {
	text   string
	items  []string
	isList bool
}

// Text builds a scalar answer.
func Text(s string) Value {
	return Value{text: s}
}

// List builds a list answer. The items are copied.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{items: cp, isList: true}
}

func (v Value) IsList() bool { return v.isList }

// Scalar returns the scalar text; it is empty for list values.
func (v Value) Scalar() string { return v.text }

// Items returns a copy of the list items; nil for scalar values.
func (v Value) Items() []string {
	if !v.isList {
		return nil
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// IsEmpty reports whether a scalar is blank or a list has no items.
func (v Value) IsEmpty() bool {
	if v.isList {
		return len(v.items) == 0
	}
	return strings.TrimSpace(v.text) == ""
}

// Contains reports whether a list holds s, or a scalar equals s.
func (v Value) Contains(s string) bool {
	if !v.isList {
		return v.text == s
	}
	for _, item := range v.items {
		if item == s {
			return true
		}
	}
	return false
}

func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.text == o.text
	}
	if len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// String renders lists joined with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		items := v.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("answer list must contain only strings: %w", err)
		}
		*v = List(items...)
		return nil
	default:
		return fmt.Errorf("answer must be a string or a list of strings, got %s", string(data))
	}
}

// AnswerSet maps question ids to answers.
type AnswerSet map[string]Value

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		if v.isList {
			out[k] = List(v.items...)
			continue
		}
		out[k] = v
	}
	return out
}

// Text returns the scalar answer for id, or "" when absent.
func (a AnswerSet) Text(id string) string {
	v, ok := a[id]
	if !ok {
		return ""
	}
	return v.String()
}

// ConditionalAnswerSet maps follow-up question ids to answers.
type ConditionalAnswerSet = AnswerSet
