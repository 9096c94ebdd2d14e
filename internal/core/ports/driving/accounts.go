package driving

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// AccountStatus summarizes one managed account without exposing its
// credentials.
type AccountStatus struct {
	AccountID   domain.AccountID `json:"account_id"`
	Scopes      []string         `json:"scopes"`
	Expiry      string           `json:"expiry,omitempty"`
	LastRefresh string           `json:"last_refresh,omitempty"`
}

// AccountService manages the set of authorized accounts.
type AccountService interface {
	// List returns a status summary for every stored account.
	List(ctx context.Context) ([]AccountStatus, error)

	// Remove deletes an account's credential state. Explicit
	// account-management action; nothing removes tokens automatically.
	Remove(ctx context.Context, account domain.AccountID) error

	// ValidateScopes is the pre-flight check: it fails with
	// KindNotAuthenticated or KindInsufficientScope without touching
	// the provider.
	ValidateScopes(ctx context.Context, account domain.AccountID, required []string) error
}
