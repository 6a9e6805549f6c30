package service

import "errors"

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the acting user is not a party the operation allows.
	ErrForbidden = errors.New("not authorized")
)

// BadRequestError rejects an operation whose inputs or current state make it
// invalid (e.g. cancelling a non-pending request).
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

// ConflictError rejects a duplicate relationship. Status tells the caller
// which side of the existing relationship they are on.
type ConflictError struct {
	Status  string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
