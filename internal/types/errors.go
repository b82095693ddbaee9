package types

import (
	"fmt"
	"strings"
)

// ValidationError signals missing or invalid required request fields. It
// maps to HTTP 400 and is never retried.
type ValidationError struct {
	Fields  []string
	Message string // optional override for non-missing-field violations
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s is required", e.Fields[0])
	}
	return fmt.Sprintf("%s are required", strings.Join(e.Fields, ", "))
}

// NewValidationError records the offending fields in request order.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// UpstreamError signals that an external dependency (places scraper,
// geocoder, language model) failed, timed out or returned unparsable
// content. It maps to HTTP 500 with the diagnostic detail attached and is
// never retried by this service.
type UpstreamError struct {
	Op     string // e.g. "scraper", "llm"
	Detail string // raw diagnostic text from the upstream
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
