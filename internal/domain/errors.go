package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when a user acts on a resource they do
	// not own.
	ErrUnauthorized = errors.New("unauthorized operation")
)
