// Package errors defines the error taxonomy shared by the cleaning
// pipeline and the analysis engine. Every failure the pipeline can
// surface is an *AppError carrying one of the ErrorType constants, so
// callers branch on kind with errors.As rather than string matching.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	// ErrTypeUnsupportedFormat marks a file extension outside csv/xlsx/xls.
	// Fatal, no fallback is attempted.
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	// ErrTypeRead marks an exhausted encoding chain or a spreadsheet
	// engine failure. Fatal, wraps the last underlying cause.
	ErrTypeRead ErrorType = "READ"
	// ErrTypeEmptyData marks a structurally unusable table: zero rows,
	// zero columns, or nothing but empty cells. Cleaning must not proceed.
	ErrTypeEmptyData ErrorType = "EMPTY_DATA"
	// ErrTypeInsufficientYears marks a comparison request over fewer than
	// two distinct academic years. Non-fatal: the table is omitted.
	ErrTypeInsufficientYears ErrorType = "INSUFFICIENT_YEARS"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
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

// IsType reports whether err is (or wraps) an *AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == t
}

// Helper constructors for the taxonomy

// NewUnsupportedFormatError flags a file extension the reader does not handle.
func NewUnsupportedFormatError(extension string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat,
		fmt.Sprintf("unsupported file format: %s", extension), nil)
}

// NewReadError flags a failed file read after all decode attempts.
func NewReadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRead, message, cause)
}

// NewEmptyDataError flags a structurally invalid table.
func NewEmptyDataError(message string) *AppError {
	return NewAppError(ErrTypeEmptyData, message, nil)
}

// NewInsufficientYearsError flags a comparison over too few years.
func NewInsufficientYearsError(yearsFound int) *AppError {
	return NewAppError(ErrTypeInsufficientYears,
		fmt.Sprintf("comparison requires at least 2 academic years, found %d", yearsFound), nil).
		WithContext("years_found", yearsFound)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// Convenience predicates used at pipeline boundaries.

// IsUnsupportedFormat reports an extension rejection.
func IsUnsupportedFormat(err error) bool { return IsType(err, ErrTypeUnsupportedFormat) }

// IsReadError reports an exhausted read attempt.
func IsReadError(err error) bool { return IsType(err, ErrTypeRead) }

// IsEmptyData reports a structurally invalid input.
func IsEmptyData(err error) bool { return IsType(err, ErrTypeEmptyData) }

// IsInsufficientYears reports a non-fatal short-year condition.
func IsInsufficientYears(err error) bool { return IsType(err, ErrTypeInsufficientYears) }
