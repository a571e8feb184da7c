package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidFormat = errors.New("unrecognized document format")
	ErrDatabase      = errors.New("database error")
	ErrValidation    = errors.New("validation failed")
)

// Error codes
const (
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeConfig        = "CONFIG_ERROR"
	CodeTokenSet      = "INVALID_TOKEN_SET"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvalidFormatError is the caller-level contract violation raised before any parsing.
func InvalidFormatError(format string) error {
	return NewAppError(CodeInvalidFormat, fmt.Sprintf("format %q is not registered", format), ErrInvalidFormat)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
