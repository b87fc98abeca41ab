package appraisal

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError carries every violated rule from one validation pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// StateError reports an event applied from a state that does not allow it.
type StateError struct {
	Entity    string
	Current   string
	Attempted string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s in state %q does not allow %q", e.Entity, e.Current, e.Attempted)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError means a concurrent actor won the race or a uniqueness
// guard rejected a duplicate. Callers may re-fetch and retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// DeadlineExpiredError carries the computed deadline for user display.
type DeadlineExpiredError struct {
	Deadline time.Time
}

func (e *DeadlineExpiredError) Error() string {
	return fmt.Sprintf("dispute window closed at %s", e.Deadline.UTC().Format(time.RFC3339))
}

// UpstreamError wraps a directory lookup failure during cycle activation.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("directory %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
