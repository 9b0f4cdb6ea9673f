package sync

import (
	"errors"
	"fmt"

	"github.com/bookwise/calsync/internal/store"
)

// Kind classifies a sync failure so callers can decide policy (retry,
// notify, compensate) without parsing error strings.
type Kind string

const (
	// KindPrecondition marks terminal failures: the organizer has no
	// calendar identifier or no credential record. Not retryable.
	KindPrecondition Kind = "precondition"
	// KindProvider marks failures surfaced by the calendar provider.
	KindProvider Kind = "provider"
	// KindStorage marks failures reading or writing the relational store.
	KindStorage Kind = "storage"
)

// Sentinel precondition causes.
var (
	ErrNoCalendar   = errors.New("organizer has no calendar identifier")
	ErrNoCredential = store.ErrCredentialNotFound
)

// Error is the typed failure returned by sync operations.
type Error struct {
	Op   string // "create", "update" or "delete"
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sync %s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or the empty Kind if err is not
// a sync error.
func KindOf(err error) Kind {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return ""
}

// IsPrecondition reports whether err is a terminal precondition failure.
func IsPrecondition(err error) bool {
	return KindOf(err) == KindPrecondition
}

// newError wraps err with the operation and kind.
func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classifyResolution maps credential-resolution failures onto kinds: missing
// users or credentials are terminal preconditions, everything else is a
// storage failure.
func classifyResolution(err error) Kind {
	if errors.Is(err, store.ErrCredentialNotFound) || errors.Is(err, store.ErrUserNotFound) {
		return KindPrecondition
	}
	return KindStorage
}
