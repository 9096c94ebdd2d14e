package driving

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// ContactsService exposes the per-account contact operations. Every
// failure it returns is a *domain.NormalizedError; callers match on the
// kind and surface remediation URLs, never provider error types.
type ContactsService interface {
	// Get fetches one contact by resource name.
	Get(ctx context.Context, account domain.AccountID, resourceName string) (*domain.Contact, error)

	// List returns one page of the account's contacts.
	List(ctx context.Context, account domain.AccountID, pageSize int64, pageToken string) (*domain.ContactPage, error)

	// Search matches contacts against a free-text query.
	Search(ctx context.Context, account domain.AccountID, query string, limit int64) ([]domain.Contact, error)

	// Create adds a contact and returns it with its assigned resource name.
	Create(ctx context.Context, account domain.AccountID, in domain.ContactInput) (*domain.Contact, error)

	// Update replaces the writable fields of an existing contact.
	Update(ctx context.Context, account domain.AccountID, resourceName string, in domain.ContactInput) (*domain.Contact, error)

	// Delete removes a contact.
	Delete(ctx context.Context, account domain.AccountID, resourceName string) error
}
