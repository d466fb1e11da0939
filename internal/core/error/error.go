package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// CollaboratorErrorMessage describes a failed call into an external
	// collaborator (model generation, retrieval, deterministic tools).
	CollaboratorErrorMessage = "collaborator call failed"
)

// Error wraps an underlying error with an HTTP status and safe message.
type Error struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, status int, message string) *Error {
	return &Error{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// InvalidInput flags a caller-correctable input problem. It carries no
// underlying cause; the message is safe to surface verbatim.
func InvalidInput(message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// IsInvalidInput reports whether err is (or wraps) an invalid-input Error.
func IsInvalidInput(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Status == http.StatusBadRequest
	}
	return false
}

// WrapCollaborator marks a failed call into an external collaborator. Callers
// are expected to absorb these into fixed user-safe text at the component
// boundary rather than propagate them out of the core.
func WrapCollaborator(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: CollaboratorErrorMessage,
	}
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return false
}
