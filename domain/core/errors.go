package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrUploadNotFound  = fmt.Errorf("%w: upload", ErrNotFound)
	ErrPressNotFound   = fmt.Errorf("%w: press", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Input errors
	ErrEmptyFile      = errors.New("uploaded file has no data rows")
	ErrMissingColumn  = errors.New("required column is missing")
	ErrInvalidValue   = errors.New("invalid cell value")
	ErrUnsupportedExt = errors.New("unsupported file type")
	ErrInvalidLevel   = errors.New("invalid outlier level")

	// Controller errors
	ErrBackUnavailable = errors.New("back navigation is only available for multi-press uploads")
	ErrWrongView       = errors.New("action not allowed in the current view")
	ErrStalePanel      = errors.New("panel was dismissed or superseded")
)

// NewMissingColumnError reports a required column absent from the header row
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

// NewInvalidValueError reports a cell that could not be parsed
func NewInvalidValueError(column string, line int, value string) error {
	return fmt.Errorf("%w: column %q line %d: %q", ErrInvalidValue, column, line, value)
}

// NewNotFoundError reports a missing resource by id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err was caused by bad user input
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrUnsupportedExt) ||
		errors.Is(err, ErrInvalidLevel)
}
