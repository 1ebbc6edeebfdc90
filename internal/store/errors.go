package store

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrOrderCancelled   = errors.New("order already cancelled")
	ErrValidation       = errors.New("validation failed")
)

// PersistenceError reports a failed WAL append or snapshot write. The
// in-memory mutation has already committed when this is returned; callers
// decide whether to surface the degraded durability or just log it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RecoveryError aborts recovery; the pre-recovery in-memory state is kept
// untouched so the operator can retry.
type RecoveryError struct {
	Err error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("recovery failed: %v", e.Err)
}

func (e *RecoveryError) Unwrap() error { return e.Err }
