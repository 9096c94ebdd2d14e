package services

import (
	"context"
	"errors"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
	"github.com/openclerk/rolodex/internal/logger"
)

// ClientBuilder turns a valid credential into an API client. Supplied
// by the API surface being authenticated for (contacts, mail, ...), so
// the factory stays agnostic to what it authenticates.
type ClientBuilder[T any] func(ctx context.Context, record *domain.TokenRecord) (T, error)

// AuthService is the authenticated-client factory. It composes the
// token store, refresher and scope validator, and guarantees a builder
// is never invoked with an expired or insufficiently-scoped credential.
type AuthService struct {
	store     driven.TokenStore
	refresher *TokenRefresher
	validator *ScopeValidator
	urls      *AuthURLBuilder
}

// NewAuthService creates the factory.
func NewAuthService(
	store driven.TokenStore,
	refresher *TokenRefresher,
	validator *ScopeValidator,
	urls *AuthURLBuilder,
) *AuthService {
	return &AuthService{
		store:     store,
		refresher: refresher,
		validator: validator,
		urls:      urls,
	}
}

// Credential runs the full pipeline for one operation attempt: load the
// record, refresh it if expiring, validate scopes. Strict ordering
// means the validator always observes the post-refresh record. Every
// failure is a *domain.NormalizedError.
func (s *AuthService) Credential(
	ctx context.Context,
	account domain.AccountID,
	required []string,
) (*domain.TokenRecord, error) {
	record, err := s.load(ctx, account, required)
	if err != nil {
		return nil, err
	}

	record, err = s.refresher.EnsureFresh(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(record, required); err != nil {
		return nil, err
	}

	return record, nil
}

// ValidateScopes is the pre-flight check exposed to handlers: it fails
// with KindNotAuthenticated or KindInsufficientScope without contacting
// the provider.
func (s *AuthService) ValidateScopes(
	ctx context.Context,
	account domain.AccountID,
	required []string,
) error {
	record, err := s.load(ctx, account, required)
	if err != nil {
		return err
	}
	return s.validator.Validate(record, required)
}

// load fetches the account's record, mapping a missing record to
// KindNotAuthenticated with an authorization URL.
func (s *AuthService) load(
	ctx context.Context,
	account domain.AccountID,
	required []string,
) (*domain.TokenRecord, error) {
	record, err := s.store.Get(ctx, account)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.Normalized(domain.KindNotAuthenticated, err,
			"no credentials on record for %s", account).
			WithAuthURL(s.urls.URL(account, domain.UnionScopes(required, domain.DefaultScopes)))
	case err != nil:
		return nil, domain.Normalized(domain.KindStorage, err,
			"loading token record for %s: %v", account, err)
	}
	return record, nil
}

// GetClient returns a client handle bound to a valid, sufficiently
// scoped credential for the account. The handle is rebuilt on every
// call so a just-refreshed token is always reflected; handles must not
// be cached across operation invocations.
func GetClient[T any](
	ctx context.Context,
	auth *AuthService,
	account domain.AccountID,
	required []string,
	build ClientBuilder[T],
) (T, error) {
	var zero T

	record, err := auth.Credential(ctx, account, required)
	if err != nil {
		return zero, err
	}

	client, err := build(ctx, record)
	if err != nil {
		if _, ok := domain.AsNormalized(err); ok {
			return zero, err
		}
		logger.Warn("client construction for %s failed: %v", account, err)
		return zero, domain.Normalized(domain.KindUnknown, err,
			"building client for %s: %v", account, err)
	}

	return client, nil
}
