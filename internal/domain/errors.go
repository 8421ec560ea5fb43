package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrImportFormat     = errors.New("unparseable import payload")
	ErrInsufficientData = errors.New("insufficient sleep data")
)

// ValidationError describes one invalid attribute of a sleep record or import entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ImportFormatError is returned when an import payload cannot be read as the
// expected container at all. No records are imported in that case.
type ImportFormatError struct {
	Format string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrImportFormat, e.Format)
	}
	return fmt.Sprintf("%s: %s: %v", ErrImportFormat, e.Format, e.Err)
}

func (e *ImportFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrImportFormat}
	}
	return []error{ErrImportFormat, e.Err}
}

// InsufficientDataError is returned by analytics when the caller asked for a
// minimum history and the window holds fewer records.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %d records in window, %d required", ErrInsufficientData, e.Have, e.Need)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
