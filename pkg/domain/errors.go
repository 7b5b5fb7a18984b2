package domain

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidState
	KindUnprocessable
)

// HTTPStatus returns the HTTP status code conventionally used for the kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed, recoverable domain error.
// Two errors are equal under errors.Is when their codes match.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// NewError creates a domain error with an explicit kind and code.
func NewError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is a domain error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of the error carrying a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError reports invalid input.
func NewValidationError(message string) *Error {
	return NewError(KindValidation, "VALIDATION_ERROR", message)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return NewError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found: %s", entity, id))
}

// NewConflictError reports a concurrent modification or duplicate.
func NewConflictError(message string) *Error {
	return NewError(KindConflict, "CONFLICT", message)
}

// NewForbiddenError reports an operation on someone else's resource.
func NewForbiddenError(message string) *Error {
	return NewError(KindForbidden, "FORBIDDEN", message)
}

// NewInvalidStateError reports a disallowed state transition.
func NewInvalidStateError(from, to string) *Error {
	return NewError(KindInvalidState, "INVALID_STATE", fmt.Sprintf("invalid state transition from %s to %s", from, to))
}
