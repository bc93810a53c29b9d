package tracker

import (
	"errors"
	"fmt"

	"github.com/balkashynov/jornada/internal/models"
)

var (
	ErrDuplicateSession  = errors.New("work session already open")
	ErrSessionMismatch   = errors.New("session does not match the current work session")
	ErrNoOpenSession     = errors.New("no open work session")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrConflict          = errors.New("session was modified concurrently")
	ErrNotFound          = errors.New("record not found")
	ErrValidation        = errors.New("validation failed")
	ErrStore             = errors.New("store operation failed")
)

// DuplicateSessionError is returned by Start when the caller already has a
// session that blocks a new one under the configured policy.
type DuplicateSessionError struct {
	UserID    string
	SessionID string
	Date      string
	Status    models.SessionStatus
}

func (e *DuplicateSessionError) Error() string {
	return fmt.Sprintf("user %s already has a %s session (%s) for %s; stop it first with 'jornada stop'",
		e.UserID, e.Status, shortID(e.SessionID), e.Date)
}

func (e *DuplicateSessionError) Is(target error) bool { return target == ErrDuplicateSession }

// SessionMismatchError is returned when an operation names a session that is
// not the caller's current open session.
type SessionMismatchError struct {
	Requested string
	Current   string
}

func (e *SessionMismatchError) Error() string {
	if e.Current == "" {
		return fmt.Sprintf("session %s is not open", shortID(e.Requested))
	}
	return fmt.Sprintf("session %s does not match current session %s", shortID(e.Requested), shortID(e.Current))
}

func (e *SessionMismatchError) Is(target error) bool { return target == ErrSessionMismatch }

// InvalidTransitionError is returned when an event is not allowed from the
// session's current state.
type InvalidTransitionError struct {
	From  models.SessionStatus
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s session", e.Event, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ConflictError is returned when the stored session changed between the read
// and the write. Callers should refetch and retry.
type ConflictError struct {
	SessionID       string
	ExpectedVersion int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s changed since version %d; refresh and try again", shortID(e.SessionID), e.ExpectedVersion)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError reports malformed input such as a missing company id.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreErrorKind classifies a persistence failure
type StoreErrorKind string

const (
	StoreNotFound    StoreErrorKind = "not found"
	StorePermission  StoreErrorKind = "permission denied"
	StoreConflict    StoreErrorKind = "conflict"
	StoreUnavailable StoreErrorKind = "unavailable"
	StoreOther       StoreErrorKind = "error"
)

// StoreError wraps a failed persistence call with the operation that failed.
type StoreError struct {
	Op   string
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStore:
		return true
	case ErrNotFound:
		return e.Kind == StoreNotFound
	case ErrConflict:
		return e.Kind == StoreConflict
	}
	return false
}

// shortID trims uuids for messages
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "<none>"
	}
	return id
}
