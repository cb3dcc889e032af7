package api

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/study-assistant/internal/domain"
	"github.com/phrazzld/study-assistant/internal/service/auth"
	"github.com/phrazzld/study-assistant/internal/store"
)

// User-facing messages shared by several handlers.
const (
	MsgInvalidRequest     = "Invalid request format"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailInUse         = "Email already in use"
	MsgUserNotFound       = "User not found"
	MsgChatNotFound       = "Chat not found"
	MsgChatForbidden      = "Unauthorized"
	MsgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		isDomainValidation(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return MsgUnexpected

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid or expired token"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization token required"

	case errors.Is(err, domain.ErrUnauthorized):
		return MsgChatForbidden

	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound

	case errors.Is(err, store.ErrChatNotFound):
		return MsgChatNotFound

	case errors.Is(err, store.ErrEmailExists):
		return MsgEmailInUse

	case isDomainValidation(err):
		return sentence(err.Error())

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return MsgUnexpected
	}
}

// domainValidationErrors are the domain errors whose text is written for
// end users.
var domainValidationErrors = []error{
	domain.ErrEmptyUsername,
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrEmptyPassword,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyChatPrompt,
	domain.ErrEmptyChatReply,
	domain.ErrInvalidChatReply,
}

func isDomainValidation(err error) bool {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// sentence upper-cases the first letter of msg.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
