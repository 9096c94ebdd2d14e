package services

import (
	"context"
	"time"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
	"github.com/openclerk/rolodex/internal/core/ports/driving"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService manages the set of authorized accounts.
type AccountService struct {
	store driven.TokenStore
	auth  *AuthService
}

// NewAccountService creates a new account service.
func NewAccountService(store driven.TokenStore, auth *AuthService) *AccountService {
	return &AccountService{
		store: store,
		auth:  auth,
	}
}

// List returns a status summary for every stored account.
func (s *AccountService) List(ctx context.Context) ([]driving.AccountStatus, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, domain.Normalized(domain.KindStorage, err, "listing accounts: %v", err)
	}

	statuses := make([]driving.AccountStatus, 0, len(records))
	for i := range records {
		statuses = append(statuses, accountStatus(&records[i]))
	}
	return statuses, nil
}

// Remove deletes an account's credential state.
func (s *AccountService) Remove(ctx context.Context, account domain.AccountID) error {
	if err := s.store.Delete(ctx, account); err != nil {
		return domain.Normalized(domain.KindStorage, err, "removing account %s: %v", account, err)
	}
	return nil
}

// ValidateScopes delegates the pre-flight check to the auth service.
func (s *AccountService) ValidateScopes(ctx context.Context, account domain.AccountID, required []string) error {
	return s.auth.ValidateScopes(ctx, account, required)
}

func accountStatus(record *domain.TokenRecord) driving.AccountStatus {
	status := driving.AccountStatus{
		AccountID: record.AccountID,
		Scopes:    record.Scopes,
	}
	if !record.Expiry.IsZero() {
		status.Expiry = record.Expiry.Format(time.RFC3339)
	}
	if !record.LastRefresh.IsZero() {
		status.LastRefresh = record.LastRefresh.Format(time.RFC3339)
	}
	return status
}
