// Package memory provides in-memory implementations of the driven
// storage ports for testing.
package memory

import (
	"context"
	"sync"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory implementation of driven.TokenStore.
type TokenStore struct {
	mu      sync.RWMutex
	records map[domain.AccountID]domain.TokenRecord
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		records: make(map[domain.AccountID]domain.TokenRecord),
	}
}

// Get retrieves the token record for an account.
func (s *TokenStore) Get(_ context.Context, account domain.AccountID) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[account]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := record
	copied.Scopes = append([]string(nil), record.Scopes...)
	return &copied, nil
}

// Save creates or replaces the token record for record.AccountID.
func (s *TokenStore) Save(_ context.Context, record domain.TokenRecord) error {
	if record.AccountID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Scopes = append([]string(nil), record.Scopes...)
	s.records[record.AccountID] = record
	return nil
}

// List returns all stored token records.
func (s *TokenStore) List(_ context.Context) ([]domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.TokenRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}

// Delete removes the token record for an account.
func (s *TokenStore) Delete(_ context.Context, account domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[account]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, account)
	return nil
}
