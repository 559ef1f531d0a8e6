package wizard

import (
	"errors"

	"kokos-intake/internal/intake/catalog"
)

var (
	ErrWrongQuestion     = errors.New("WRONG_QUESTION")
	ErrComplete          = errors.New("WIZARD_COMPLETE")
	ErrIncomplete        = errors.New("WIZARD_INCOMPLETE")
	ErrConditionalActive = errors.New("CONDITIONAL_ACTIVE")
	ErrNoConditional     = errors.New("NO_ACTIVE_CONDITIONAL")
	ErrNotSkippable      = errors.New("SKIP_NOT_ALLOWED")
	ErrAtStart           = errors.New("AT_FIRST_QUESTION")
	ErrInvalidState      = errors.New("INVALID_WIZARD_STATE")

	// ErrInvalidValue is returned when an answer does not fit the question's input kind.
	ErrInvalidValue = catalog.ErrInvalidValue
)
