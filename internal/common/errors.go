// Package common contains shared constants and sentinel errors used across
// Echoline components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Entity/collection errors.
	ErrorNotFound = errors.New("not found")

	// Transport/server errors.
	ErrorInternal = errors.New("internal error")
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors: the server rejected or no longer accepts the credential.
	ErrorUnauthorized = errors.New("unauthorized")
)
