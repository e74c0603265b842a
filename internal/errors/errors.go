// Package errors provides the consolidated error definitions for feedwatch.
//
// This package provides:
//   - Sentinel errors for all error conditions
//   - Error category checking functions
//   - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Transient feed conditions. The tailer retries these on the next poll;
	// they are never surfaced to callers.
	ErrFeedMissing   = errors.New("feed file does not exist")
	ErrFeedTruncated = errors.New("feed file truncated or replaced")

	// Flag validation errors, surfaced synchronously to Create callers.
	ErrNoData           = errors.New("no samples ingested yet")
	ErrEmptyDescription = errors.New("flag description is empty")

	// Persistence errors. A flag is not considered created when its write
	// failed, so the caller may retry.
	ErrPersistence = errors.New("flag persistence failed")

	// Configuration errors.
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidWindow   = errors.New("invalid window size")

	// State errors.
	ErrAlreadyRunning = errors.New("already running")
	ErrClosed         = errors.New("closed")
)

// ============================================================================
// Category checks
// ============================================================================

// IsTransient reports whether err is an expected transient feed condition
// that the tailer absorbs and retries.
func IsTransient(err error) bool {
	return errors.Is(err, ErrFeedMissing) || errors.Is(err, ErrFeedTruncated)
}

// IsFlagValidation reports whether err is a flag validation failure the
// operator can correct and retry.
func IsFlagValidation(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrEmptyDescription)
}

// IsPersistence reports whether err indicates a failed durable write.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// ============================================================================
// Wrapping utilities
// ============================================================================

// Wrap wraps err with a message, preserving the sentinel for errors.Is.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Re-export the stdlib helpers so callers only import this package.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return errors.New(text) }
