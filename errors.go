package tickfsm

import (
	"errors"
	"fmt"
)

var (
	ErrNilOwner           = errors.New("owner must not be nil")
	ErrStateOutOfRange    = errors.New("state out of range")
	ErrReentrantUpdate    = errors.New("update called from within a callback")
	ErrChainLimitExceeded = errors.New("transition chain limit exceeded")
)

// CallbackKind identifies which lifecycle callback of a state failed.
type CallbackKind string

const (
	KindInit CallbackKind = "Init"
	KindProc CallbackKind = "Proc"
	KindTerm CallbackKind = "Term"
)

// CallbackError is returned by Update when a callback returns an error. It wraps the original error, allowing it to
// be inspected using errors.Is and errors.As.
type CallbackError struct {
	// Kind is the callback that failed.
	Kind CallbackKind
	// State is the state the callback belongs to, formatted with %v.
	State string
	// Err is the error returned by the callback.
	Err error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("invoking %s callback for state (%s): %v", e.Kind, e.State, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
