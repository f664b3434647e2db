package service

import (
	"errors"
	"fmt"
)

var errUploadsDisabled = errors.New("blob storage is not configured")

var (
	// ErrNotFound covers both a missing id and a failed status lookup; the
	// public handler must not reveal which half of the lookup key was wrong.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidTransition is returned when a decision targets an
	// application that is no longer Pending.
	ErrInvalidTransition = errors.New("application has already been decided")
)

// ValidationError identifies the first field that failed validation, before
// any upload or write happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid value for field %q", e.Field)
	}
	return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Reason)
}

// UploadError wraps a blob storage failure during submission.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %s: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError wraps a database failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
