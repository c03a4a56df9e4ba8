package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Controllers and the socket gateway
// map these to caller-visible results; anything else is an internal error.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Specific conflicts, each matching errors.Is(err, ErrConflict).
var (
	ErrDuplicateCommittee = fmt.Errorf("%w: a committee with this name already exists", ErrConflict)
	ErrJoinLimitExceeded  = fmt.Errorf("%w: committee join limit exceeded", ErrConflict)
	ErrAlreadyPaid        = fmt.Errorf("%w: already paid", ErrConflict)
)

// ForbiddenError is an authorization denial with a human-readable reason.
// It matches errors.Is(err, ErrForbidden) so the delivery layer can map it
// to a 403 while still surfacing the reason to the caller.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// Forbid returns a ForbiddenError with the given reason.
func Forbid(reason string) error {
	return &ForbiddenError{Reason: reason}
}
