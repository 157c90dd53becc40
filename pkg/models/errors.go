package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the lifecycle components wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidState  = errors.New("invalid state")
	ErrAuthorization = errors.New("not authorized")
)

// Error describes a rejected operation together with the entity's current status,
// so a client can tell a transient failure from a terminal one.
type Error struct {
	Kind    error
	Entity  string
	ID      string
	Status  string
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Entity != "" {
		msg = fmt.Sprintf("%s: %s", e.Entity, msg)
		if e.ID != "" {
			msg = fmt.Sprintf("%s %s", msg, e.ID)
		}
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Status != "" {
		msg = fmt.Sprintf("%s (status %s)", msg, e.Status)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// ValidationError reports malformed or out-of-range input.
func ValidationError(entity, format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing entity.
func NotFoundError(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// ConflictError reports a uniqueness violation.
func ConflictError(entity, id, format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports an operation that the entity's current status does not permit.
func InvalidStateError(entity, id, status, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidState, Entity: entity, ID: id, Status: status, Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports an actor that may not act on the entity.
func AuthorizationError(entity, id, actor string) *Error {
	return &Error{Kind: ErrAuthorization, Entity: entity, ID: id, Message: fmt.Sprintf("actor %s is not permitted", actor)}
}

// StatusOf extracts the entity status carried by err, if any.
func StatusOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return ""
}
