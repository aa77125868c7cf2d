package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the failure kinds surfaced by the API.
type Kind string

const (
	// KindInvalidInput marks a malformed request parameter.
	KindInvalidInput Kind = "invalid_input"
	// KindNotFound marks a lookup that matched no row.
	KindNotFound Kind = "not_found"
	// KindInternal marks a connection or query failure, or anything unclassified.
	KindInternal Kind = "internal"
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

// Kind reports KindInvalidInput.
func (e *ValidationError) Kind() Kind { return KindInvalidInput }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Kind reports KindNotFound.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Kind reports KindInternal.
func (e *InternalError) Kind() Kind { return KindInternal }

// Kinder is implemented by errors that belong to the taxonomy.
type Kinder interface {
	Kind() Kind
}

// KindOf returns the kind of the first error in err's chain that carries one.
// Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// HTTPStatus maps err to the status code returned to API clients.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
