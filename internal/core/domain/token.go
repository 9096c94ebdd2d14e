package domain

import "time"

// RefreshMargin is the safety window before expiry within which a token
// is treated as expiring and must be refreshed before use.
const RefreshMargin = 60 * time.Second

// TokenRecord is the durable OAuth credential state for one account.
// There is exactly one record per account; it is replaced in place on
// refresh and only removed by an explicit account-management action.
type TokenRecord struct {
	// AccountID is the normalized email the record is keyed by.
	AccountID AccountID `json:"account_id"`
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Scopes are the scopes granted at authorization time.
	Scopes []string `json:"scopes"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
	// LastRefresh is when the record was last refreshed.
	LastRefresh time.Time `json:"last_refresh,omitempty"`

	// CreatedAt is when the account was first authorized.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpiresWithin reports whether the access token expires within margin
// of now (or has already expired). A zero expiry never expires.
func (t *TokenRecord) ExpiresWithin(margin time.Duration, now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Add(margin).Before(t.Expiry)
}

// HasRefreshToken reports whether a refresh credential is available.
func (t *TokenRecord) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// TokenGrant is the result of a token-endpoint exchange (authorization
// code or refresh grant). It is transient; the refresher folds it into
// the account's TokenRecord.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scopes       []string
	Expiry       time.Time
}
