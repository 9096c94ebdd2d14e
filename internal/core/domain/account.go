package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// AccountID identifies one managed account. It is the account's email
// address, lower-cased, and is the key for all per-account state.
type AccountID string

// ParseAccountID validates and normalizes a raw account identifier.
// Lookups are case-insensitive, so the address is lower-cased before use.
func ParseAccountID(raw string) (AccountID, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty account identifier", ErrInvalidInput)
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: %q is not a valid account email", ErrInvalidInput, raw)
	}

	return AccountID(s), nil
}

func (a AccountID) String() string {
	return string(a)
}
