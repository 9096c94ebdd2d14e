package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
	"github.com/openclerk/rolodex/internal/logger"
)

// refreshCall is one in-flight refresh exchange. Callers that arrive
// while it is running wait on done and share the outcome.
type refreshCall struct {
	done   chan struct{}
	record *domain.TokenRecord
	err    error
}

// TokenRefresher keeps access tokens fresh. At most one refresh
// exchange is in flight per account at any time; refreshes for
// different accounts never block each other.
type TokenRefresher struct {
	store     driven.TokenStore
	exchanger driven.TokenExchanger
	urls      *AuthURLBuilder

	margin time.Duration
	now    func() time.Time

	mu       sync.Mutex
	inflight map[domain.AccountID]*refreshCall
}

// NewTokenRefresher creates a refresher with the standard expiry margin.
func NewTokenRefresher(
	store driven.TokenStore,
	exchanger driven.TokenExchanger,
	urls *AuthURLBuilder,
) *TokenRefresher {
	return &TokenRefresher{
		store:     store,
		exchanger: exchanger,
		urls:      urls,
		margin:    domain.RefreshMargin,
		now:       time.Now,
		inflight:  make(map[domain.AccountID]*refreshCall),
	}
}

// EnsureFresh returns a token record whose access credential is valid
// beyond the expiry margin, refreshing and persisting it if needed.
// A record that is not expiring is returned unchanged with zero network
// calls. Performs no retries; a transient failure propagates as
// KindTransient and leaves the stored record untouched.
func (r *TokenRefresher) EnsureFresh(ctx context.Context, record *domain.TokenRecord) (*domain.TokenRecord, error) {
	if !record.ExpiresWithin(r.margin, r.now()) {
		return record, nil
	}

	account := record.AccountID

	r.mu.Lock()
	if call, ok := r.inflight[account]; ok {
		r.mu.Unlock()
		select {
		case <-call.done:
			return call.record, call.err
		case <-ctx.Done():
			return nil, domain.Normalized(domain.KindTransient, ctx.Err(),
				"refresh for %s abandoned: %v", account, ctx.Err())
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	r.inflight[account] = call
	r.mu.Unlock()

	call.record, call.err = r.refresh(ctx, record)
	close(call.done)

	// Clear the entry on success or failure so a future expiry triggers
	// a fresh exchange.
	r.mu.Lock()
	delete(r.inflight, account)
	r.mu.Unlock()

	return call.record, call.err
}

// refresh runs the critical section for one account: re-check against
// the store, perform exactly one exchange, persist the result.
func (r *TokenRefresher) refresh(ctx context.Context, stale *domain.TokenRecord) (*domain.TokenRecord, error) {
	account := stale.AccountID

	// Re-read the record: a refresh that completed between the caller's
	// expiry check and ours must not be repeated.
	current, err := r.store.Get(ctx, account)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		current = stale
	case err != nil:
		return nil, domain.Normalized(domain.KindStorage, err,
			"loading token record for %s: %v", account, err)
	}

	if !current.ExpiresWithin(r.margin, r.now()) {
		return current, nil
	}

	if !current.HasRefreshToken() {
		return nil, domain.Normalized(domain.KindReauthorizationRequired, domain.ErrNoRefreshToken,
			"account %s has no refresh credential", account).
			WithAuthURL(r.urls.URL(account, domain.UnionScopes(current.Scopes, domain.DefaultScopes)))
	}

	logger.Debug("refreshing token for %s (expiry %s)", account, current.Expiry.Format(time.RFC3339))

	grant, err := r.exchanger.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrGrantRejected) {
			return nil, domain.Normalized(domain.KindReauthorizationRequired, err,
				"refresh credential for %s was rejected; re-authorization required", account).
				WithAuthURL(r.urls.URL(account, domain.UnionScopes(current.Scopes, domain.DefaultScopes)))
		}
		return nil, domain.Normalized(domain.KindTransient, err,
			"token refresh for %s failed: %v", account, err)
	}

	updated := *current
	updated.AccessToken = grant.AccessToken
	if grant.RefreshToken != "" {
		// Providers with refresh-token rotation return a replacement.
		updated.RefreshToken = grant.RefreshToken
	}
	if grant.TokenType != "" {
		updated.TokenType = grant.TokenType
	}
	if len(grant.Scopes) > 0 {
		updated.Scopes = grant.Scopes
	}
	updated.Expiry = grant.Expiry
	updated.LastRefresh = r.now()
	updated.UpdatedAt = r.now()

	if err := r.store.Save(ctx, updated); err != nil {
		return nil, domain.Normalized(domain.KindStorage, err,
			"persisting refreshed token for %s: %v", account, err)
	}

	return &updated, nil
}
