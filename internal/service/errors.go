package service

import (
	"errors"
	"fmt"

	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
)

// Failure kinds returned by the task service. Specific errors wrap one of
// these; callers classify with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrConflict          = errors.New("conflict")
	ErrUnknownActor      = errors.New("unknown actor")
)

var (
	ErrTaskNotFound        = fmt.Errorf("%w: task", ErrNotFound)
	ErrTaskNotInTrash      = fmt.Errorf("%w: task not found in trash", ErrNotFound)
	ErrAssignmentNotFound  = fmt.Errorf("%w: user is not assigned to this task", ErrNotFound)
	ErrCommentNotFound     = fmt.Errorf("%w: comment", ErrNotFound)
	ErrNotAwaitingApproval = fmt.Errorf("%w: task is not awaiting approval", ErrInvalidTransition)
	ErrAlreadyTrashed      = fmt.Errorf("%w: task is already in trash", ErrInvalidTransition)
	ErrTaskTrashed         = fmt.Errorf("%w: task is in trash", ErrInvalidTransition)
	ErrEmptyComment        = fmt.Errorf("%w: comment text is required", ErrValidation)
	ErrUnknownAssignee     = fmt.Errorf("%w: one or more assignees do not exist", ErrValidation)
	ErrStaleTask           = fmt.Errorf("%w: task was modified concurrently", ErrConflict)
)

// ForbiddenError is an authorization denial carrying the policy reason.
type ForbiddenError struct {
	Action policy.Action
	Reason policy.Reason
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s (%s)", e.Action, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func forbidden(action policy.Action, d policy.Decision) error {
	return &ForbiddenError{Action: action, Reason: d.Reason}
}

// translate maps persistence errors onto the service taxonomy. notFound
// replaces ports.ErrNotFound when given.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, ports.ErrVersionConflict):
		return ErrStaleTask
	case errors.Is(err, ports.ErrInvalidEntity):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

// isDomainError reports whether err already belongs to the taxonomy and
// should reach the caller unchanged.
func isDomainError(err error) bool {
	for _, kind := range []error{
		ErrNotFound, ErrForbidden, ErrInvalidTransition, ErrValidation,
		ErrTransactionFailed, ErrConflict, ErrUnknownActor,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
