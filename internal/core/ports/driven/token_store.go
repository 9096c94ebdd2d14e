package driven

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// TokenStore persists one TokenRecord per account identity.
// Records survive process restarts; the store is loaded from durable
// storage at process start and written through on every mutation.
//
// Records are never deleted automatically. Delete exists only for
// explicit account removal.
type TokenStore interface {
	// Get returns the record for an account, or domain.ErrNotFound.
	Get(ctx context.Context, account domain.AccountID) (*domain.TokenRecord, error)

	// Save creates or replaces the record for record.AccountID.
	Save(ctx context.Context, record domain.TokenRecord) error

	// List returns all stored records.
	List(ctx context.Context) ([]domain.TokenRecord, error)

	// Delete removes the record for an account.
	Delete(ctx context.Context, account domain.AccountID) error
}
