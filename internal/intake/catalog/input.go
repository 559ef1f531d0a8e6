package catalog

import (
	"errors"
	"fmt"

	"kokos-intake/internal/models"
)

// ErrInvalidValue is returned when an answer does not fit a question's input.
var ErrInvalidValue = errors.New("INVALID_ANSWER_VALUE")

// Kind names an input kind as it appears in catalog files.
type Kind string

const (
	KindShortText    Kind = "text"
	KindLongText     Kind = "textarea"
	KindSingleSelect Kind = "select"
	KindMultiSelect  Kind = "multi-select"
)

// Input is the closed set of answer input kinds. Only the select kinds carry
// options.
type Input interface {
	Kind() Kind
	// Check validates v for a question with the given required flag.
	Check(v models.Value, required bool) error
	doc() questionDoc
}

type ShortText struct {
	Placeholder string
}

type LongText struct {
	Placeholder string
}

type SingleSelect struct {
	Options []string
}

type MultiSelect struct {
	Options []string
}

func (ShortText) Kind() Kind    { return KindShortText }
func (LongText) Kind() Kind     { return KindLongText }
func (SingleSelect) Kind() Kind { return KindSingleSelect }
func (MultiSelect) Kind() Kind  { return KindMultiSelect }

// Short text answers are never blank; optional questions are skipped instead.
func (ShortText) Check(v models.Value, _ bool) error {
	if v.IsList() {
		return fmt.Errorf("%w: text answer must be a single value", ErrInvalidValue)
	}
	if v.IsEmpty() {
		return fmt.Errorf("%w: answer is empty", ErrInvalidValue)
	}
	return nil
}

func (LongText) Check(v models.Value, required bool) error {
	if v.IsList() {
		return fmt.Errorf("%w: text answer must be a single value", ErrInvalidValue)
	}
	if required && v.IsEmpty() {
		return fmt.Errorf("%w: answer is required", ErrInvalidValue)
	}
	return nil
}

func (s SingleSelect) Check(v models.Value, _ bool) error {
	if v.IsList() {
		return fmt.Errorf("%w: select answer must be a single option", ErrInvalidValue)
	}
	if !contains(s.Options, v.Scalar()) {
		return fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, v.Scalar(), s.Options)
	}
	return nil
}

func (m MultiSelect) Check(v models.Value, _ bool) error {
	if !v.IsList() {
		return fmt.Errorf("%w: multi-select answer must be a list", ErrInvalidValue)
	}
	items := v.Items()
	if len(items) == 0 {
		return fmt.Errorf("%w: select at least one option", ErrInvalidValue)
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if !contains(m.Options, item) {
			return fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, item, m.Options)
		}
		if _, dup := seen[item]; dup {
			return fmt.Errorf("%w: %q selected twice", ErrInvalidValue, item)
		}
		seen[item] = struct{}{}
	}
	return nil
}

func (t ShortText) doc() questionDoc {
	return questionDoc{Type: KindShortText, Placeholder: t.Placeholder}
}

func (t LongText) doc() questionDoc {
	return questionDoc{Type: KindLongText, Placeholder: t.Placeholder}
}

func (s SingleSelect) doc() questionDoc {
	return questionDoc{Type: KindSingleSelect, Options: append([]string(nil), s.Options...)}
}

func (m MultiSelect) doc() questionDoc {
	return questionDoc{Type: KindMultiSelect, Options: append([]string(nil), m.Options...)}
}

// Options returns the option list of select inputs and nil for text inputs.
func Options(in Input) []string {
	switch t := in.(type) {
	case SingleSelect:
		return append([]string(nil), t.Options...)
	case MultiSelect:
		return append([]string(nil), t.Options...)
	default:
		return nil
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
