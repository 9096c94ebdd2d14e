package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclerk/rolodex/internal/core/domain"
)

func TestScopeValidator_Validate_Sufficient(t *testing.T) {
	validator := NewScopeValidator(testURLs())

	record := &domain.TokenRecord{
		AccountID: "ada@example.com",
		Scopes:    []string{domain.ScopeContacts, domain.ScopeUserinfoEmail},
	}

	assert.NoError(t, validator.Validate(record, []string{domain.ScopeContacts}))
	assert.NoError(t, validator.Validate(record, nil))
}

func TestScopeValidator_Validate_Insufficient(t *testing.T) {
	validator := NewScopeValidator(testURLs())

	record := &domain.TokenRecord{
		AccountID: "ada@example.com",
		Scopes:    []string{domain.ScopeContactsReadonly},
	}

	err := validator.Validate(record, []string{domain.ScopeContacts})

	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindInsufficientScope, nerr.Kind)
	assert.Equal(t, []string{domain.ScopeContacts}, nerr.MissingScopes)
	assert.NotEmpty(t, nerr.AuthURL)
}

func TestScopeValidator_Validate_ReauthURLIsAdditive(t *testing.T) {
	validator := NewScopeValidator(testURLs())

	record := &domain.TokenRecord{
		AccountID: "ada@example.com",
		Scopes:    []string{domain.ScopeContactsReadonly, domain.ScopeUserinfoEmail},
	}

	err := validator.Validate(record, []string{domain.ScopeContacts})
	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)

	parsed, parseErr := url.Parse(nerr.AuthURL)
	require.NoError(t, parseErr)
	scopes := strings.Fields(parsed.Query().Get("scope"))

	// The consent URL covers granted plus required, so re-consent never
	// narrows what the account already has.
	assert.ElementsMatch(t, []string{
		domain.ScopeContacts,
		domain.ScopeContactsReadonly,
		domain.ScopeUserinfoEmail,
	}, scopes)
}

func TestScopeValidator_Validate_NoHierarchyMatching(t *testing.T) {
	validator := NewScopeValidator(testURLs())

	// The broad contacts scope does not satisfy the readonly one.
	record := &domain.TokenRecord{
		AccountID: "ada@example.com",
		Scopes:    []string{domain.ScopeContacts},
	}

	err := validator.Validate(record, []string{domain.ScopeContactsReadonly})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInsufficientScope))
}
