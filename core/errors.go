package core

import "github.com/pkg/errors"

// Error kinds. Every domain error matches exactly one of them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidMarks    = errors.New("invalid marks")
	ErrNoMatchingGrade = errors.New("no matching grade")
	ErrConflict        = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

// NewError returns an error with message msg that reports itself as kind.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (err *kindError) Error() string        { return err.msg }
func (err *kindError) Is(target error) bool { return target == err.kind }

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// IsKind reports whether err is of any of the given kinds.
func IsKind(err error, kinds ...error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
