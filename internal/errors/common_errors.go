package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"

	// Ledger input errors
	ErrTypeMissingColumn   ErrorType = "MISSING_COLUMN"
	ErrTypeNoSelection     ErrorType = "NO_SELECTION"
	ErrTypeDateNotFound    ErrorType = "DATE_NOT_FOUND"
	ErrTypeNamingViolation ErrorType = "NAMING_CONVENTION"
	ErrTypeMismatchedCount ErrorType = "MISMATCHED_COUNT"
	ErrTypeUnknownField    ErrorType = "UNKNOWN_FIELD"
	ErrTypeUnknownPeriod   ErrorType = "UNKNOWN_PERIOD"
)

// Sentinels for errors.Is against an error kind
var (
	ErrMissingColumn   = &AppError{Type: ErrTypeMissingColumn}
	ErrNoSelection     = &AppError{Type: ErrTypeNoSelection}
	ErrDateNotFound    = &AppError{Type: ErrTypeDateNotFound}
	ErrNamingViolation = &AppError{Type: ErrTypeNamingViolation}
	ErrMismatchedCount = &AppError{Type: ErrTypeMismatchedCount}
	ErrUnknownField    = &AppError{Type: ErrTypeUnknownField}
	ErrUnknownPeriod   = &AppError{Type: ErrTypeUnknownPeriod}

	ErrResourceNotFound = &AppError{Type: ErrTypeNotFound}
	ErrParsingFailed    = &AppError{Type: ErrTypeParsing}
	ErrInvalidInput     = &AppError{Type: ErrTypeValidation}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// MissingColumn reports a required sheet column that is absent or unusable
func MissingColumn(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("missing or invalid column %q", column), nil).
		WithContext("column", column)
}

// NoSelection reports an empty selection where at least one item is required
func NoSelection(what string) *AppError {
	return NewAppError(ErrTypeNoSelection, fmt.Sprintf("no %s selected", what), nil).
		WithContext("selection", what)
}

// DateNotFound reports a day with no ledger rows
func DateNotFound(day string) *AppError {
	return NewAppError(ErrTypeDateNotFound, fmt.Sprintf("no data for %s", day), nil).
		WithContext("date", day)
}

// NamingConventionViolation reports a source file whose name does not carry period and year
func NamingConventionViolation(filename string) *AppError {
	return NewAppError(ErrTypeNamingViolation,
		fmt.Sprintf("file %q does not follow the NAME_<PERIOD>_<YEAR> convention", filename), nil).
		WithContext("file", filename)
}

// MismatchedCount reports a source list and a label list of different lengths
func MismatchedCount(files, labels int) *AppError {
	return NewAppError(ErrTypeMismatchedCount,
		fmt.Sprintf("%d files but %d labels", files, labels), nil).
		WithContext("files", files).
		WithContext("labels", labels)
}

// UnknownField reports a field name outside the ledger schema
func UnknownField(name string) *AppError {
	return NewAppError(ErrTypeUnknownField, fmt.Sprintf("unknown field %q", name), nil).
		WithContext("field", name)
}

// UnknownPeriod reports a period label missing from the month table
func UnknownPeriod(label string) *AppError {
	return NewAppError(ErrTypeUnknownPeriod, fmt.Sprintf("unknown period %q", strings.TrimSpace(label)), nil).
		WithContext("period", label)
}
