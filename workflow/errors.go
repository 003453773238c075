// Package workflow implements the commission and membership status rules:
// fee-plan assignment validation, membership dispatch, the commission state
// machine, and entity investment eligibility.
package workflow

import (
	"errors"
	"fmt"

	"github.com/VersoHoldings/verso_backend/models"
)

// Kind is a machine-readable error kind. Controllers map kinds to HTTP
// status codes; the workflow package never does.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidState      Kind = "invalid_state"
	KindMismatch          Kind = "mismatch"
	KindOwnershipMismatch Kind = "ownership_mismatch"
	KindMissingAgreement  Kind = "missing_agreement"
	KindAlreadyDispatched Kind = "already_dispatched"
	KindIllegalTransition Kind = "illegal_transition"
	KindMissingLawyer     Kind = "missing_lawyer"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Error is a tagged workflow error. All four components surface failures as
// *Error so callers can branch on Kind without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// wrap tags an underlying datastore error.
func wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IllegalTransition reports a requested commission status that is not
// reachable from the current one.
func IllegalTransition(current, requested models.CommissionStatus) *Error {
	return &Error{
		Kind:    KindIllegalTransition,
		Message: fmt.Sprintf("cannot transition commission from %q to %q", current, requested),
	}
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInternal
}

// ErrRowNotFound is returned by Store implementations when a referenced row
// is absent. The components translate it into KindNotFound errors.
var ErrRowNotFound = errors.New("workflow: row not found")

// ErrConditionFailed is returned by Store implementations when a conditional
// update matched no row, i.e. the guard column no longer held the expected
// value.
var ErrConditionFailed = errors.New("workflow: conditional update matched no row")
