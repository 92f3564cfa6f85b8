package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeEmptyInput   ErrorType = "EMPTY_INPUT"
	ErrTypeInvalidState ErrorType = "INVALID_STATE"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrFileNotFound = stderrors.New("file not found")
	ErrEmptyInput   = stderrors.New("no incident data loaded")
	ErrInvalidState = stderrors.New("invalid state")
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

// NewFileNotFoundError reports a data file that does not exist.
func NewFileNotFoundError(filename string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("file '%s' does not exist", filename), ErrFileNotFound).
		WithContext("filename", filename)
}

// NewEmptyInputError reports that no year produced any incident rows.
func NewEmptyInputError(requested int) *AppError {
	return NewAppError(ErrTypeEmptyInput, fmt.Sprintf("none of the %d requested years could be loaded", requested), ErrEmptyInput).
		WithContext("requested_years", requested)
}

// NewInvalidStateError reports a state number with no rows in the data.
func NewInvalidStateError(state int) *AppError {
	return NewAppError(ErrTypeInvalidState, fmt.Sprintf("invalid STATE number: %d", state), ErrInvalidState).
		WithContext("state", state)
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

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is, or wraps, an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
