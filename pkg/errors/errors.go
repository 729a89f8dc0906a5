// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypePermission
	ErrorTypeInternal
	ErrorTypeServiceUnavailable
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypePermission:
		return "permission"
	case ErrorTypeInternal:
		return "internal"
	case ErrorTypeServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError is returned for malformed input
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError is returned when the requested row or chat does not exist
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError is returned when a uniqueness constraint would be violated
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// PermissionError is returned when the caller lacks access
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// InternalError represents an unexpected failure
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// ServiceUnavailableError is returned when a dependency is not ready
type ServiceUnavailableError struct {
	baseError
}

// NewServiceUnavailableError creates a new ServiceUnavailableError
func NewServiceUnavailableError(msg string) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{msg: msg}}
}

// IsValidationError checks if err wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if err wraps a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflictError checks if err wraps a ConflictError
func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsPermissionError checks if err wraps a PermissionError
func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsInternalError checks if err wraps an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// IsServiceUnavailableError checks if err wraps a ServiceUnavailableError
func IsServiceUnavailableError(err error) bool {
	var target *ServiceUnavailableError
	return errors.As(err, &target)
}

// TypeOf reports the first typed error found in the chain of err.
// Validation is checked first so that a joined validation cause wins
// over a generic internal wrapper.
func TypeOf(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypeUnknown
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsPermissionError(err):
		return ErrorTypePermission
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsConflictError(err):
		return ErrorTypeConflict
	case IsServiceUnavailableError(err):
		return ErrorTypeServiceUnavailable
	case IsInternalError(err):
		return ErrorTypeInternal
	default:
		return ErrorTypeUnknown
	}
}
