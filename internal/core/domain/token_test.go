package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRecord_ExpiresWithin(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{name: "already expired", expiry: now.Add(-time.Hour), want: true},
		{name: "expires at now", expiry: now, want: true},
		{name: "inside the margin", expiry: now.Add(30 * time.Second), want: true},
		{name: "exactly at the margin boundary", expiry: now.Add(RefreshMargin), want: true},
		{name: "just beyond the margin", expiry: now.Add(RefreshMargin + time.Second), want: false},
		{name: "comfortably fresh", expiry: now.Add(time.Hour), want: false},
		{name: "zero expiry never expires", expiry: time.Time{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := TokenRecord{Expiry: tt.expiry}
			assert.Equal(t, tt.want, record.ExpiresWithin(RefreshMargin, now))
		})
	}
}

func TestTokenRecord_HasRefreshToken(t *testing.T) {
	assert.False(t, (&TokenRecord{}).HasRefreshToken())
	assert.True(t, (&TokenRecord{RefreshToken: "rt"}).HasRefreshToken())
}
