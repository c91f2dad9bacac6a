package preview

import (
	"errors"
	"fmt"
)

// Session lifecycle errors.
var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	ErrSessionStopped = errors.New("session stopped")
	ErrSessionFaulted = errors.New("session faulted: configuration rollback failed")
)

// Store errors. A rollback that fails for any of the checkpoint reasons is
// reported as a *RollbackError wrapping one of them.
var (
	ErrCheckpointOpen    = errors.New("checkpoint still open")
	ErrCheckpointUnknown = errors.New("checkpoint unknown or already rolled back")
	ErrCheckpointOrder   = errors.New("checkpoint is not the most recent")
	ErrCheckpointForeign = errors.New("checkpoint belongs to another store")
)

// FormatError is produced when a Formatter fails or panics. It never
// escapes the job that ran the Formatter; it is recorded in the Session's
// error history instead.
type FormatError struct {
	Category Category
	Cause    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s: %v", e.Category, e.Cause)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// RollbackError reports a checkpoint that could not be rolled back. When it
// is returned the store has already been forced back to its durable state.
type RollbackError struct {
	Checkpoint uint64
	Reason     error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback of checkpoint %d failed: %v", e.Checkpoint, e.Reason)
}

func (e *RollbackError) Unwrap() error {
	return e.Reason
}
