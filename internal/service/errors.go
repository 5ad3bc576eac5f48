package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound       = errors.New("template not found")
	ErrTemplateAccessDenied   = errors.New("access denied to this template")
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrAssignmentAccessDenied = errors.New("access denied to this assignment")
	ErrClientAccessDenied     = errors.New("client belongs to another coach")
	ErrExerciseNotFound       = errors.New("exercise not found")
	ErrExerciseAccessDenied   = errors.New("access denied to modify or delete this exercise")
	ErrVideoAccessDenied      = errors.New("video belongs to another coach")
	ErrStorageUnavailable     = errors.New("object storage is not configured")
)

// PersistenceError reports a failed write against the document store. The
// in-memory model the write came from is left untouched, so the caller may
// retry.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("%s %s timed out; it may or may not have been saved", e.Op, e.Collection)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Timeout reports whether the write ran out of time.
func (e *PersistenceError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// persist runs write under timeout and wraps any failure in a
// PersistenceError. Errors listed in pass are returned as they are.
func persist(ctx context.Context, timeout time.Duration, op, collection string, write func(context.Context) error, pass ...error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := write(ctx)
	if err == nil {
		return nil
	}
	for _, p := range pass {
		if errors.Is(err, p) {
			return err
		}
	}
	return &PersistenceError{Op: op, Collection: collection, Err: err}
}
