package services

import (
	"fmt"
	"time"
)

// ValidationError reports malformed or out-of-range input. The HTTP layer
// validates first; the core still re-checks invariant-critical fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// SchedulingConflictError reports a slot that is unavailable, already
// consumed, or overlapping an existing session.
type SchedulingConflictError struct {
	TeacherID string
	Start     time.Time
	End       time.Time
	Message   string
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict for teacher %s on [%s, %s): %s",
		e.TeacherID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Message)
}

// InvalidStateTransitionError names the current and requested state of an
// illegal lifecycle move.
type InvalidStateTransitionError struct {
	Entity    string
	Current   string
	Requested string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.Current, e.Requested)
}

// OutOfWindowError reports a call join outside the authorized window.
type OutOfWindowError struct {
	Now         time.Time
	WindowStart time.Time
	WindowEnd   time.Time
}

func (e *OutOfWindowError) Error() string {
	return fmt.Sprintf("call may only be joined between %s and %s (now %s)",
		e.WindowStart.Format(time.RFC3339), e.WindowEnd.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

// RoleMismatchError reports a join whose role does not correspond to the
// session's teacher or student.
type RoleMismatchError struct {
	UserID string
	Role   string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("user %s does not hold role %q on this session", e.UserID, e.Role)
}

// ReconciliationPendingError marks a session and its payment ledger as
// transiently diverged after a partial saga failure. It is surfaced to the
// background reconciler, never to the end user as a hard failure.
type ReconciliationPendingError struct {
	SessionID string
	Action    string
	Cause     error
}

func (e *ReconciliationPendingError) Error() string {
	return fmt.Sprintf("session %s has a pending %s reconciliation: %v", e.SessionID, e.Action, e.Cause)
}

func (e *ReconciliationPendingError) Unwrap() error { return e.Cause }
