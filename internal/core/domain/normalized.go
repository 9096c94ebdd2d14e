package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind enumerates the closed failure taxonomy that crosses the
// credential layer's outward boundary. Operation handlers match on
// these kinds rather than on provider-specific error types.
type ErrorKind string

const (
	// KindNotAuthenticated means no token is on record for the account.
	KindNotAuthenticated ErrorKind = "not_authenticated"
	// KindReauthorizationRequired means the refresh credential was
	// rejected or revoked by the provider.
	KindReauthorizationRequired ErrorKind = "reauthorization_required"
	// KindInsufficientScope means the token is valid but lacks required scopes.
	KindInsufficientScope ErrorKind = "insufficient_scope"
	// KindTransient covers network failures, timeouts, 5xx and rate
	// limits. The only kind for which a caller-level retry is sanctioned.
	KindTransient ErrorKind = "transient_provider_error"
	// KindIncompleteResponse means the provider reported success but the
	// response is missing data the operation contractually requires.
	KindIncompleteResponse ErrorKind = "incomplete_response"
	// KindStorage means the token persistence medium failed.
	KindStorage ErrorKind = "storage_error"
	// KindNotFound means the provider reported the resource missing.
	KindNotFound ErrorKind = "not_found"
	// KindUnknown is the catch-all for unclassified failures. Always
	// logged with full original detail.
	KindUnknown ErrorKind = "unknown"
)

// NormalizedError is the only error shape that leaves the credential
// layer. Kind plus payload, not a type hierarchy.
type NormalizedError struct {
	Kind    ErrorKind
	Message string
	// Code is the provider HTTP status when one was observed.
	Code int
	// MissingScopes names the scopes absent from the token, for
	// KindInsufficientScope.
	MissingScopes []string
	// AuthURL is the remediation consent URL for the authorization
	// kinds. Handlers surface it to the end user rather than retrying.
	AuthURL string

	cause error
}

// Normalized builds a NormalizedError wrapping cause.
func Normalized(kind ErrorKind, cause error, format string, args ...any) *NormalizedError {
	return &NormalizedError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func (e *NormalizedError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.MissingScopes) > 0 {
		fmt.Fprintf(&b, " (missing scopes: %s)", strings.Join(e.MissingScopes, " "))
	}
	return b.String()
}

func (e *NormalizedError) Unwrap() error {
	return e.cause
}

// WithAuthURL attaches a remediation URL and returns the error.
func (e *NormalizedError) WithAuthURL(url string) *NormalizedError {
	e.AuthURL = url
	return e
}

// Retryable reports whether a caller-level retry with backoff is
// sanctioned for this error.
func (e *NormalizedError) Retryable() bool {
	return e.Kind == KindTransient
}

// AsNormalized extracts a NormalizedError from an error chain.
func AsNormalized(err error) (*NormalizedError, bool) {
	var nerr *NormalizedError
	if errors.As(err, &nerr) {
		return nerr, true
	}
	return nil, false
}

// IsKind reports whether err is a NormalizedError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	nerr, ok := AsNormalized(err)
	return ok && nerr.Kind == kind
}
