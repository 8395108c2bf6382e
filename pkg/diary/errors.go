package diary

import (
	"errors"
	"fmt"

	"tableflip.dev/calendiary/pkg/calendar"
)

// Kind classifies a diary Error.
type Kind int

const (
	// KindNotFound means the date has no entry. It is a valid query outcome,
	// not a failure.
	KindNotFound Kind = iota
	// KindPersistence wraps an underlying storage I/O failure.
	KindPersistence
	// KindValidation rejects invalid input such as blank content.
	KindValidation
)

var (
	// ErrNotFound matches any KindNotFound error with errors.Is.
	ErrNotFound = errors.New("diary: entry not found")
	// ErrPersistence matches any KindPersistence error with errors.Is.
	ErrPersistence = errors.New("diary: persistence failure")
	// ErrValidation matches any KindValidation error with errors.Is.
	ErrValidation = errors.New("diary: validation failed")
)

// Error is the typed error returned by Storage implementations.
type Error struct {
	Kind   Kind
	Date   calendar.Date
	Reason string
	Cause  error
}

// NotFound reports that date has no entry.
func NotFound(date calendar.Date) *Error {
	return &Error{Kind: KindNotFound, Date: date}
}

// PersistenceFailure wraps a storage error for date.
func PersistenceFailure(date calendar.Date, cause error) *Error {
	return &Error{Kind: KindPersistence, Date: date, Cause: cause}
}

// Validation rejects input for the given reason.
func Validation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("Diary entry not found for date: %s", e.Date)
	case KindPersistence:
		cause := "unknown storage error"
		if e.Cause != nil {
			cause = e.Cause.Error()
		}
		return fmt.Sprintf("Failed to persist diary entry: %s", cause)
	case KindValidation:
		return fmt.Sprintf("Validation failed: %s", e.Reason)
	}
	return "diary: unknown error"
}

// Unwrap exposes the storage cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrPersistence:
		return e.Kind == KindPersistence
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// IsNotFound is shorthand for errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
