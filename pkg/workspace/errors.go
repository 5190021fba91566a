package workspace

import (
	"errors"
	"fmt"
)

// Sentinel errors for workspace operations.
var (
	// ErrValidation is returned when a workspace configuration is missing
	// required fields or carries invalid values. Nothing is sent to the
	// service.
	ErrValidation = errors.New("invalid workspace configuration")

	// ErrNoIdentity is returned when an operation that needs a
	// server-assigned slug is invoked on a workspace that was never created
	// or loaded, or has already been deleted.
	ErrNoIdentity = errors.New("workspace slug is not set")

	// ErrFile is returned when a workspace definition file or directory
	// cannot be found, read, parsed or written.
	ErrFile = errors.New("workspace file unavailable")
)

// Error represents a workspace operation error with context.
type Error struct {
	Op  string // Operation that failed (e.g., "create", "vector search")
	Err error  // Underlying error
	Msg string // Additional context
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrValidation, err)}
}

func fileError(op, path string, err error) error {
	return &Error{Op: op, Msg: path, Err: fmt.Errorf("%w: %w", ErrFile, err)}
}
