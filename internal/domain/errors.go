package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for completion-service failures that carry no extra state.
var (
	// ErrConfigurationMissing means no usable completion-service credentials
	// were found; no request is attempted.
	ErrConfigurationMissing = errors.New("completion service is not configured")

	// ErrInvalidCredential is an authentication failure (401). Not retried.
	ErrInvalidCredential = errors.New("completion service rejected the credential")

	// ErrAccessDenied is an authorization failure (403). Not retried.
	ErrAccessDenied = errors.New("completion service denied access")

	// ErrRequestTimeout means the completion request exceeded its deadline.
	// Not retried automatically; the caller may re-invoke.
	ErrRequestTimeout = errors.New("completion request timed out")
)

// ParseError reports a diagnostics log that is not syntactically valid or
// lacks the expected top-level runs collection. Fatal for that log.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing diagnostics log: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing diagnostics log: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadError reports an unreadable or malformed rule catalog.
// Fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading rule catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExtractionError reports an unreadable source artifact. Recovered locally:
// the pipeline substitutes a placeholder and continues.
type ExtractionError struct {
	URI string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting source from %s: %v", e.URI, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RateLimitedError means the retry budget for throttling responses was
// exhausted. RetryAfter carries the last server-supplied wait hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("completion service rate limit exceeded, retry after %s", e.RetryAfter)
}

// CompletionError is the catch-all transport/response failure of the
// completion service. Not retried.
type CompletionError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("completion request failed: %s", e.Detail)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// EditRejectedError means the final file mutation did not apply, e.g. the
// target span changed since the suggestion was generated. No partial write
// happened; the user must re-trigger.
type EditRejectedError struct {
	Path   string
	Reason string
}

func (e *EditRejectedError) Error() string {
	return fmt.Sprintf("edit rejected for %s: %s", e.Path, e.Reason)
}
