package settings

import "github.com/pkg/errors"

var (
	// ErrUnauthorized is returned when the caller's request token is missing or stale.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller may not manage settings.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for unknown keys or malformed import payloads.
	ErrInvalidInput = errors.New("invalid input")
)
