package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "rolodex-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testRecord(account domain.AccountID) domain.TokenRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.TokenRecord{
		AccountID:    account,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Scopes:       []string{domain.ScopeContacts, domain.ScopeUserinfoEmail},
		Expiry:       now.Add(time.Hour),
		LastRefresh:  now,
		CreatedAt:    now.Add(-24 * time.Hour),
		UpdatedAt:    now,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
	assert.Equal(t, "tokens.db", filepath.Base(store.Path()))
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "rolodex-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestTokenStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tokens := store.TokenStore()
	ctx := context.Background()
	record := testRecord("ada@example.com")

	require.NoError(t, tokens.Save(ctx, record))

	got, err := tokens.Get(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, record.AccountID, got.AccountID)
	assert.Equal(t, record.AccessToken, got.AccessToken)
	assert.Equal(t, record.RefreshToken, got.RefreshToken)
	assert.Equal(t, record.TokenType, got.TokenType)
	assert.Equal(t, record.Scopes, got.Scopes)
	assert.WithinDuration(t, record.Expiry, got.Expiry, time.Second)
	assert.WithinDuration(t, record.LastRefresh, got.LastRefresh, time.Second)
}

func TestTokenStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.TokenStore().Get(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokenStore_Save_UpsertPreservesCreatedAt(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tokens := store.TokenStore()
	ctx := context.Background()

	record := testRecord("ada@example.com")
	require.NoError(t, tokens.Save(ctx, record))

	updated := record
	updated.AccessToken = "access-2"
	updated.CreatedAt = time.Now().UTC() // must be ignored on conflict
	require.NoError(t, tokens.Save(ctx, updated))

	got, err := tokens.Get(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.WithinDuration(t, record.CreatedAt, got.CreatedAt, time.Second)
}

func TestTokenStore_Save_EmptyAccountRejected(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.TokenStore().Save(context.Background(), domain.TokenRecord{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenStore_Save_ZeroTimes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tokens := store.TokenStore()
	ctx := context.Background()

	record := testRecord("ada@example.com")
	record.Expiry = time.Time{}
	record.LastRefresh = time.Time{}
	require.NoError(t, tokens.Save(ctx, record))

	got, err := tokens.Get(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, got.Expiry.IsZero())
	assert.True(t, got.LastRefresh.IsZero())
}

func TestTokenStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tokens := store.TokenStore()
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, testRecord("bob@example.com")))
	require.NoError(t, tokens.Save(ctx, testRecord("ada@example.com")))

	records, err := tokens.List(ctx)

	require.NoError(t, err)
	require.Len(t, records, 2)
	// Ordered by account for stable listings.
	assert.Equal(t, domain.AccountID("ada@example.com"), records[0].AccountID)
	assert.Equal(t, domain.AccountID("bob@example.com"), records[1].AccountID)
}

func TestTokenStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tokens := store.TokenStore()
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, testRecord("ada@example.com")))
	require.NoError(t, tokens.Delete(ctx, "ada@example.com"))

	_, err := tokens.Get(ctx, "ada@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokenStore_Delete_Missing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.TokenStore().Delete(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokenStore_SurvivesReopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "rolodex-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	ctx := context.Background()
	record := testRecord("ada@example.com")

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.TokenStore().Save(ctx, record))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.TokenStore().Get(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, record.AccessToken, got.AccessToken)
}
