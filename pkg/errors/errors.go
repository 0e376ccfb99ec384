package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidInput indicates a caller-detectable precondition violation
	ErrorTypeInvalidInput ErrorType = "INVALID_INPUT"

	// ErrorTypeUnavailable indicates a transport or decoding failure of an external call
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeMalformedResponse indicates an external call succeeded but the expected data shape was absent
	ErrorTypeMalformedResponse ErrorType = "MALFORMED_RESPONSE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInput creates a new invalid input error
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
	}
}

// NewUnavailable creates a new unavailable error
func NewUnavailable(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewMalformedResponse creates a new malformed response error
func NewMalformedResponse(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the error type of err, or an empty type if err is not an AppError
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidInput
}

// IsUnavailable reports whether err is an unavailable error
func IsUnavailable(err error) bool {
	return TypeOf(err) == ErrorTypeUnavailable
}

// IsMalformedResponse reports whether err is a malformed response error
func IsMalformedResponse(err error) bool {
	return TypeOf(err) == ErrorTypeMalformedResponse
}
