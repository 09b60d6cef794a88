package service

import (
	"errors"
	"fmt"
)

// Error kinds. Check with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not authorized")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
)

// Error is a business failure returned by every lifecycle operation.
// Message is safe to show to the user, Err is internal and only logged.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind as well as the wrapped error
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func validationError(op, msg string) error {
	return &Error{Op: op, Kind: ErrValidation, Message: msg}
}

func notFoundError(op, msg string) error {
	return &Error{Op: op, Kind: ErrNotFound, Message: msg}
}

func forbiddenError(op, msg string) error {
	return &Error{Op: op, Kind: ErrForbidden, Message: msg}
}

func invalidStateError(op, msg string) error {
	return &Error{Op: op, Kind: ErrInvalidState, Message: msg}
}

func conflictError(op, msg string) error {
	return &Error{Op: op, Kind: ErrConflict, Message: msg}
}

func storageError(op string, err error) error {
	return &Error{Op: op, Kind: ErrStorage, Message: "An internal error occurred. Please try again later.", Err: err}
}

// Message returns the user-facing text for err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}
