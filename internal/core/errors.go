package core

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the quotation and procurement services.
// Callers classify failures with errors.Is; the concrete error carries the context.
var (
	// ErrValidation means the input was rejected and nothing was written.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition means the requested state-machine edge is not allowed from the
	// current status, including the case where a concurrent request moved it first.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotFound means a referenced client, vendor, project, material request or quotation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAtomicity means a multi-row write was rolled back as a whole.
	ErrAtomicity = errors.New("atomic operation failed")
	// ErrForbidden means the actor's role may not perform the action.
	ErrForbidden = errors.New("not permitted")
)

// InvalidTransitionError identifies the entity, its current status and the refused action.
type InvalidTransitionError struct {
	Entity string
	ID     int
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s cannot %s: status is %s", e.Entity, e.Action, e.From)
	}
	return fmt.Sprintf("%s %d cannot %s: status is %s", e.Entity, e.ID, e.Action, e.From)
}

// Is lets errors.Is(err, ErrInvalidTransition) match.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
