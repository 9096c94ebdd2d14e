package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingScopes(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required []string
		want     []string
	}{
		{
			name:     "all present",
			granted:  []string{ScopeContacts, ScopeUserinfoEmail},
			required: []string{ScopeContacts},
			want:     nil,
		},
		{
			name:     "one missing",
			granted:  []string{ScopeContactsReadonly},
			required: []string{ScopeContacts},
			want:     []string{ScopeContacts},
		},
		{
			name:     "empty grant misses everything",
			granted:  nil,
			required: []string{ScopeContacts, ScopeUserinfoEmail},
			want:     []string{ScopeContacts, ScopeUserinfoEmail},
		},
		{
			name:     "empty requirement is always satisfied",
			granted:  nil,
			required: nil,
			want:     nil,
		},
		{
			// Broader scopes never satisfy narrower ones; comparison is
			// verbatim string equality.
			name:     "no hierarchy matching",
			granted:  []string{ScopeContacts},
			required: []string{ScopeContactsReadonly},
			want:     []string{ScopeContactsReadonly},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingScopes(tt.granted, tt.required))
		})
	}
}

func TestHasScopes(t *testing.T) {
	granted := []string{ScopeContacts, ScopeUserinfoEmail}

	assert.True(t, HasScopes(granted, []string{ScopeContacts}))
	assert.True(t, HasScopes(granted, nil))
	assert.False(t, HasScopes(granted, []string{ScopeContactsReadonly}))
}

func TestUnionScopes(t *testing.T) {
	got := UnionScopes(
		[]string{ScopeUserinfoEmail, ScopeContacts},
		[]string{ScopeContacts, ScopeContactsReadonly},
	)

	// Sorted, deduplicated union of both sets.
	assert.Equal(t, []string{ScopeContacts, ScopeContactsReadonly, ScopeUserinfoEmail}, got)
}
