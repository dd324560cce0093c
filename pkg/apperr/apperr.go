package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity does not exist within the caller's
// tenant. Cross-tenant lookups fail with the same error so that ids from other
// tenants are indistinguishable from missing ones.
var ErrNotFound = errors.New("not found")

// ValidationError reports a bad request with a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for the given field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a state conflict: duplicate unique field, a no-op
// stage move, or a lost concurrent update.
type ConflictError struct {
	Field  string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Conflict builds a ConflictError. field may be empty.
func Conflict(field, reason string) error {
	return &ConflictError{Field: field, Reason: reason}
}

// AuthorizationError reports an ownership or tenant mismatch. The reason never
// includes data from the other tenant.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// Unauthorized builds an AuthorizationError.
func Unauthorized(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// ExtractionError means a document could not be turned into usable text.
// It carries document metadata for logging, never the raw buffer.
type ExtractionError struct {
	Filename string
	MimeType string
	Size     int64
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %q (%s, %d bytes): %v", e.Filename, e.MimeType, e.Size, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExternalServiceError means the external matching service failed after all
// retry attempts. Callers recover from it by falling back to the heuristic
// matcher; it is the only error kind that is ever silently recovered.
type ExternalServiceError struct {
	Attempts int
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("matching service failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
