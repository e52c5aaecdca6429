package candidate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when the store has no candidates at all.
	ErrEmptyCorpus = errors.New("candidate store returned no candidates")
	// ErrInvalidCriteria is returned for project criteria that can not be matched.
	ErrInvalidCriteria = errors.New("invalid project criteria")
)

// FieldError describes a record that could not be decoded.
type FieldError struct {
	Index int
	ID    string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("candidate %q (index %d): field %s: %v", e.ID, e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
