package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies failures along the boundaries the pipeline reports
// to callers. The engine/acquisition/dispatch types map one-to-one onto the
// user-facing remediation messages.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeIO             ErrorType = "io"
	ErrorTypeEngineNotFound ErrorType = "engine_not_found"
	ErrorTypeEngineInvoke   ErrorType = "engine_invocation"
	ErrorTypeOcrRuntime     ErrorType = "ocr_runtime"
	ErrorTypeAcquisition    ErrorType = "image_acquisition"
	ErrorTypeImageFile      ErrorType = "image_file"
	ErrorTypeOutputDispatch ErrorType = "output_dispatch"
	ErrorTypeConfiguration  ErrorType = "configuration"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeSystem         ErrorType = "system"
)

// AppError represents an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewError(ErrorTypeIO, message, cause)
}

// NewEngineNotFoundError creates an engine-not-found error
func NewEngineNotFoundError(message string, cause error) *AppError {
	return NewError(ErrorTypeEngineNotFound, message, cause)
}

// NewEngineInvokeError creates an error for a binary that is present but
// failed to execute (permissions, corruption).
func NewEngineInvokeError(message string, cause error) *AppError {
	return NewError(ErrorTypeEngineInvoke, message, cause)
}

// NewOcrRuntimeError creates an error for an engine that ran but rejected
// the image, language, or parameters.
func NewOcrRuntimeError(message string, cause error) *AppError {
	return NewError(ErrorTypeOcrRuntime, message, cause)
}

// NewAcquisitionError creates an image acquisition error
func NewAcquisitionError(message string, cause error) *AppError {
	return NewError(ErrorTypeAcquisition, message, cause)
}

// NewImageFileError creates an error for an invalid file-source path
func NewImageFileError(message string, cause error) *AppError {
	return NewError(ErrorTypeImageFile, message, cause)
}

// NewOutputDispatchError creates an output dispatch error
func NewOutputDispatchError(message string, cause error) *AppError {
	return NewError(ErrorTypeOutputDispatch, message, cause)
}

// NewConfigurationError creates a configuration store error
func NewConfigurationError(message string, cause error) *AppError {
	return NewError(ErrorTypeConfiguration, message, cause)
}

// WrapError wraps an existing error with additional context. Passing an
// empty errorType preserves the type of a wrapped AppError or classifies
// plain errors by content.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok && errorType == "" {
		return &AppError{
			Type:    appErr.Type,
			Message: message + ": " + appErr.Message,
			Cause:   appErr.Cause,
		}
	}

	if errorType == "" {
		errorType = classifyError(err)
	}

	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// classifyError automatically classifies an error based on its content
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeSystem
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return ErrorTypeTimeout
	case strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not found"):
		return ErrorTypeImageFile
	case strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied"):
		return ErrorTypeIO
	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad"):
		return ErrorTypeValidation
	default:
		return ErrorTypeSystem
	}
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return classifyError(err)
}
