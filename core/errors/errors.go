// Package errors defines the error types shared across the toolkit.
// Each type says what failed and on which input, and every chain
// bottoms out at a sentinel so callers can branch with Is instead of
// matching message text.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched via Is.
var (
	// ErrNotFound marks a missing file or resource.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks input that failed parsing or validation.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports a missing resource by kind and identifier.
type NotFoundError struct {
	Resource string // what kind of thing is missing ("source file", "stylesheet")
	ID       string // its path or name, if known
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a value that failed validation, such as a
// malformed chapter or verse number argument.
type ValidationError struct {
	Field   string // what was being validated ("verse number")
	Value   string // the offending input
	Message string
	Err     error // parser error detail, if any
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	case e.Field != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
}

// Unwrap exposes both the sentinel and the underlying parser error, so
// Is(err, ErrInvalidInput) holds even when a detail error is attached.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// IOError reports a failed file operation.
type IOError struct {
	Operation string // "open", "read", "decompress"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed input in a named format.
type ParseError struct {
	Format  string // "USFM", "sty", "OSIS"
	Path    string // source path, if known
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// NewNotFound builds a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation builds a ValidationError for one offending value.
func NewValidation(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NewIO builds an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse builds a ParseError.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// Wrap adds context to an error, passing nil through.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error, passing nil through.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool { return errors.As(err, target) }
