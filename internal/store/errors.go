package store

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned when a recurring task is created with an unknown pattern
	ErrInvalidPattern = errors.New("invalid recurrence pattern, use: daily, weekly, monthly, yearly")

	// ErrNoData is returned by a backend that has nothing stored yet
	ErrNoData = errors.New("no stored tasks")

	// ErrCorruptDocument wraps every structural decoding failure
	ErrCorruptDocument = errors.New("corrupt task document")
)

// DocumentError reports where in a task document decoding failed
type DocumentError struct {
	Path string // e.g. tasks[3].id
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCorruptDocument) match any document error
func (e *DocumentError) Is(target error) bool {
	return target == ErrCorruptDocument
}
