package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Gateway errors. Both are recoverable: a stage that hits either one
	// substitutes fallback content and the run continues.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed response")

	// Structural invariant violations (duplicate IDs, missing required
	// fields, unknown enum values). Treated identically to a malformed
	// response: recovered via fallback.
	ErrInvariantViolation = errors.New("structural invariant violation")

	// ErrFallbackExhausted is the only fatal pipeline condition. The
	// fallback provider is designed to always succeed, so this should be
	// unreachable, but it must be representable.
	ErrFallbackExhausted = errors.New("fallback content exhausted")

	// ErrRunCanceled marks a run halted between stages by context cancellation.
	ErrRunCanceled = errors.New("run canceled")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewInvariantError(stage string, reason string) error {
	return fmt.Errorf("%w: stage %s: %s", ErrInvariantViolation, stage, reason)
}

func NewProviderError(cause error) error {
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, cause)
}

func NewParseError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRecoverable reports whether an error is handled locally by stage
// fallback rather than failing the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrInvariantViolation)
}

func IsFatal(err error) bool {
	return errors.Is(err, ErrFallbackExhausted)
}
