package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrAlreadyInitialized = errors.New("ledger already initialized")
	ErrNotInitialized     = errors.New("ledger not initialized, run init first")
	ErrNoPendingBet       = errors.New("no pending bet found for slip")
	ErrInvalidResult      = errors.New("result must be one of: win, loss")
	ErrNotFound           = errors.New("record not found")
	ErrVersionConflict    = errors.New("ledger version conflict")
)

// PersistenceError represents a failed durable write. The in-memory ledger
// must not diverge from the last successfully persisted state when one of
// these is returned.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsConflict checks whether the failure was a stale-version write rejection
func (e *PersistenceError) IsConflict() bool {
	return errors.Is(e.Cause, ErrVersionConflict)
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}
