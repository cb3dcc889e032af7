package generation

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the generation package
var (
	// ErrUnknownMode is returned when a mode name is not in the registry
	ErrUnknownMode = errors.New("unknown generation mode")

	// ErrInvalidConfig is returned when a client or service is constructed
	// with missing dependencies or settings
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrEmptyResponse is returned by clients when the provider answered
	// without any candidate content
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the provider withheld content on
	// safety grounds
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// ValidationError lists every input constraint a request violated.
type ValidationError struct {
	Violations []string
}

// Error joins the violations with "; ".
func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// ProviderError is the failure shape returned by Client implementations.
// Providers surface failures inconsistently, so any of the fields may be
// empty: Status is an HTTP-style status, Code a symbolic code such as
// RESOURCE_EXHAUSTED, Message free text.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString("provider error")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
