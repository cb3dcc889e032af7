package generation

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/study-assistant/internal/redact"
)

// ErrorKind is the closed set of failure categories a generation call can
// end in.
type ErrorKind string

// Error kinds, in classification order.
const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindAuthConfig   ErrorKind = "auth_config"
	KindRateLimited  ErrorKind = "rate_limited"
	KindBadRequest   ErrorKind = "bad_request"
	KindUpstream     ErrorKind = "upstream"
	KindUnknown      ErrorKind = "unknown"
)

// User-facing messages for kinds whose message does not come from the error.
const (
	MessageAuthConfig  = "AI provider API key is invalid or missing. Please check your configuration."
	MessageRateLimited = "API rate limit exceeded. Please try again later."
	MessageBadRequest  = "Invalid request. Please check your input."
	MessageUnknown     = "Failed to generate AI response. Please try again."
)

// ClassifiedError is the terminal form of every failed generation call.
// Message is always safe to show to a user.
type ClassifiedError struct {
	Kind       ErrorKind
	Message    string
	StatusHint int
	Err        error
}

// Error implements the error interface for ClassifiedError.
func (e *ClassifiedError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the original error to support errors.Is/errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Severity is the log level a failure of this kind deserves.
func (e *ClassifiedError) Severity() slog.Level {
	switch e.Kind {
	case KindInvalidInput:
		return slog.LevelDebug
	case KindRateLimited, KindBadRequest:
		return slog.LevelWarn
	case KindUpstream:
		if e.StatusHint < http.StatusInternalServerError {
			return slog.LevelWarn
		}
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Retryable reports whether repeating the same request later may succeed.
// Retrying is always the caller's decision; nothing here retries.
func (e *ClassifiedError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindUnknown:
		return true
	case KindUpstream:
		return e.StatusHint >= http.StatusInternalServerError
	default:
		return false
	}
}

// signals are the facts Classify matches on. Providers report failures
// inconsistently, so any of them may be missing.
type signals struct {
	status  int
	code    string
	message string
}

func signalsOf(err error) signals {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return signals{
			status:  perr.Status,
			code:    strings.ToUpper(perr.Code),
			message: perr.Message,
		}
	}
	return signals{message: err.Error()}
}

func (s signals) mentions(substrings ...string) bool {
	lower := strings.ToLower(s.message)
	for _, sub := range substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// Classify maps any failure from a generation call onto the error taxonomy.
// Rules are tried in order and the first match wins:
//
//  1. *ValidationError             -> invalid_input (400)
//  2. 401, UNAUTHENTICATED, "api key", "authentication" -> auth_config (401)
//  3. 429, RESOURCE_EXHAUSTED, "quota", "rate_limit"    -> rate_limited (429)
//  4. 400, INVALID_ARGUMENT, "invalid"                  -> bad_request (400)
//  5. any other explicit status    -> upstream (that status)
//  6. anything else                -> unknown (500)
//
// The substring rules exist because the provider does not always report a
// status or code. A *ClassifiedError is returned unchanged.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{Kind: KindUnknown, Message: MessageUnknown, StatusHint: http.StatusInternalServerError}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return &ClassifiedError{
			Kind:       KindInvalidInput,
			Message:    verr.Error(),
			StatusHint: http.StatusBadRequest,
			Err:        err,
		}
	}

	s := signalsOf(err)

	switch {
	case s.status == http.StatusUnauthorized || s.code == "UNAUTHENTICATED" ||
		s.mentions("api key", "authentication"):
		return &ClassifiedError{Kind: KindAuthConfig, Message: MessageAuthConfig, StatusHint: http.StatusUnauthorized, Err: err}

	case s.status == http.StatusTooManyRequests || s.code == "RESOURCE_EXHAUSTED" ||
		s.mentions("quota", "rate_limit"):
		return &ClassifiedError{Kind: KindRateLimited, Message: MessageRateLimited, StatusHint: http.StatusTooManyRequests, Err: err}

	case s.status == http.StatusBadRequest || s.code == "INVALID_ARGUMENT" ||
		s.mentions("invalid"):
		return &ClassifiedError{Kind: KindBadRequest, Message: MessageBadRequest, StatusHint: http.StatusBadRequest, Err: err}

	case s.status != 0:
		msg := strings.TrimSpace(redact.String(s.message))
		if msg == "" {
			msg = MessageUnknown
		}
		return &ClassifiedError{Kind: KindUpstream, Message: msg, StatusHint: s.status, Err: err}
	}

	return &ClassifiedError{Kind: KindUnknown, Message: MessageUnknown, StatusHint: http.StatusInternalServerError, Err: err}
}
