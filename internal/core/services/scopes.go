package services

import (
	"github.com/openclerk/rolodex/internal/core/domain"
)

// ScopeValidator checks that a token's granted scopes cover what an
// operation requires.
type ScopeValidator struct {
	urls *AuthURLBuilder
}

// NewScopeValidator creates a validator that builds reauthorization
// URLs with the given builder.
func NewScopeValidator(urls *AuthURLBuilder) *ScopeValidator {
	return &ScopeValidator{urls: urls}
}

// Validate returns nil when every required scope is present verbatim in
// the record's granted scopes. Otherwise it returns
// KindInsufficientScope naming exactly the missing scopes, with a
// reauthorization URL covering the union of granted and required scopes
// so re-consent is additive.
func (v *ScopeValidator) Validate(record *domain.TokenRecord, required []string) error {
	missing := domain.MissingScopes(record.Scopes, required)
	if len(missing) == 0 {
		return nil
	}

	nerr := domain.Normalized(domain.KindInsufficientScope, nil,
		"token for %s lacks required scopes", record.AccountID)
	nerr.MissingScopes = missing
	return nerr.WithAuthURL(v.urls.URL(record.AccountID, domain.UnionScopes(record.Scopes, required)))
}
