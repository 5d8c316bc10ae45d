// Package apperr defines the error taxonomy shared across storage and HTTP
// layers. Callers match sentinels with errors.Is and typed errors with
// errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the entity is absent from both the remote store and
	// the local cache.
	ErrNotFound = errors.New("not found")

	// ErrNoConnectionString means the remote store URI is missing or empty,
	// so no remote operation can even be attempted.
	ErrNoConnectionString = errors.New("remote store connection string is not set")
)

// ValidationError reports caller-supplied data that fails a required-field
// rule. It always propagates to the caller unchanged.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError for a field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ConnectionError wraps the last underlying error after the connection retry
// loop has been exhausted.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("remote store unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
