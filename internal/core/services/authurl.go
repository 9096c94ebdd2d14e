package services

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// AuthURLBuilder constructs user-facing consent URLs for an account and
// scope set. Remediation URLs embedded in normalized errors come from
// here, as do the URLs opened during the interactive authorization flow.
type AuthURLBuilder struct {
	clientID    string
	redirectURI string
}

// NewAuthURLBuilder creates a builder for the given OAuth application.
// redirectURI is the default callback used for remediation URLs; the
// interactive flow supplies its own per-run callback address.
func NewAuthURLBuilder(clientID, redirectURI string) *AuthURLBuilder {
	return &AuthURLBuilder{
		clientID:    clientID,
		redirectURI: redirectURI,
	}
}

// URL returns a consent URL for the account covering scopes. The state
// parameter is random; URLs built for remediation messages are opened
// by the user through the normal add-account flow, which generates its
// own state, so this one is informational.
func (b *AuthURLBuilder) URL(account domain.AccountID, scopes []string) string {
	return b.ConsentURL(account, scopes, b.redirectURI, uuid.NewString(), "")
}

// ConsentURL returns a consent URL with explicit redirect URI, state
// and PKCE verifier, for the interactive authorization flow.
//
// access_type=offline and prompt=consent force the provider to issue a
// refresh credential even on repeat authorizations.
func (b *AuthURLBuilder) ConsentURL(
	account domain.AccountID,
	scopes []string,
	redirectURI, state, verifier string,
) string {
	cfg := oauth2.Config{
		ClientID:    b.clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes,
		Endpoint:    googleoauth.Endpoint,
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if account != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", account.String()))
	}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}

	return cfg.AuthCodeURL(state, opts...)
}
