package feature

import (
	"errors"
	"strings"
)

// ErrInvalidInput marks a user-supplied value outside its declared domain.
var ErrInvalidInput = errors.New("invalid input")

// Issue is one rejected field.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every rejected field of one request. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + " " + is.Reason
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, Issue{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}
