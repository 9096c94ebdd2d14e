package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication Errors.

	// ErrGrantRejected indicates the provider rejected a refresh or
	// authorization grant (revoked or invalid credential).
	ErrGrantRejected = errors.New("grant rejected by provider")

	// ErrNoRefreshToken indicates the stored record carries no refresh
	// credential, so an expired token cannot be renewed silently.
	ErrNoRefreshToken = errors.New("no refresh token on record")
)
