package service

import (
	"errors"
	"fmt"
)

// Typed domain errors. Handlers translate them to HTTP statuses:
// ValidationError → 422, ConflictError → 409, NotFoundError → 404.
// Anything else is a 500.

// ValidationError marks a request whose referenced entities exist but whose
// semantics are invalid (wrong parent, bad XOR combination, negative weight).
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

// ConflictError marks a request that collides with current state: duplicate
// registration, over-consumption, deletion that would destroy history.
type ConflictError struct{ msg string }

func (e *ConflictError) Error() string { return e.msg }

// NotFoundError marks a missing entity.
type NotFoundError struct{ msg string }

func (e *NotFoundError) Error() string { return e.msg }

func newValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func newConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func newNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ErrInvalidCredentials is returned by AuthService on bad login/refresh.
// Handlers map it to 401.
var ErrInvalidCredentials = errors.New("invalid credentials")
