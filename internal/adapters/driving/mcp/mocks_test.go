package mcp

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driving"
)

// mockContactsService is a mock implementation of driving.ContactsService.
type mockContactsService struct {
	contact  *domain.Contact
	contacts []domain.Contact
	page     *domain.ContactPage
	err      error

	lastAccount domain.AccountID
	lastQuery   string
	lastLimit   int64
	lastInput   domain.ContactInput
	deleted     []string
}

func (m *mockContactsService) Get(_ context.Context, account domain.AccountID, _ string) (*domain.Contact, error) {
	m.lastAccount = account
	return m.contact, m.err
}

func (m *mockContactsService) List(_ context.Context, account domain.AccountID, _ int64, _ string) (*domain.ContactPage, error) {
	m.lastAccount = account
	return m.page, m.err
}

func (m *mockContactsService) Search(_ context.Context, account domain.AccountID, query string, limit int64) ([]domain.Contact, error) {
	m.lastAccount = account
	m.lastQuery = query
	m.lastLimit = limit
	return m.contacts, m.err
}

func (m *mockContactsService) Create(_ context.Context, account domain.AccountID, in domain.ContactInput) (*domain.Contact, error) {
	m.lastAccount = account
	m.lastInput = in
	return m.contact, m.err
}

func (m *mockContactsService) Update(_ context.Context, account domain.AccountID, _ string, in domain.ContactInput) (*domain.Contact, error) {
	m.lastAccount = account
	m.lastInput = in
	return m.contact, m.err
}

func (m *mockContactsService) Delete(_ context.Context, account domain.AccountID, resourceName string) error {
	m.lastAccount = account
	m.deleted = append(m.deleted, resourceName)
	return m.err
}

// mockAccountService is a mock implementation of driving.AccountService.
type mockAccountService struct {
	statuses []driving.AccountStatus
	err      error
}

func (m *mockAccountService) List(_ context.Context) ([]driving.AccountStatus, error) {
	return m.statuses, m.err
}

func (m *mockAccountService) Remove(_ context.Context, _ domain.AccountID) error {
	return m.err
}

func (m *mockAccountService) ValidateScopes(_ context.Context, _ domain.AccountID, _ []string) error {
	return m.err
}
