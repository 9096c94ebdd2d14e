package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/openclerk/rolodex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
)

// Store is the SQLite-backed durable storage for per-account tokens.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.rolodex/data/tokens.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".rolodex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tokens.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TokenStore returns a TokenStore interface backed by this store.
func (s *Store) TokenStore() driven.TokenStore {
	return &tokenStore{store: s}
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_tokens.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Token Store ====================

type tokenStore struct {
	store *Store
}

var _ driven.TokenStore = (*tokenStore)(nil)

// Save creates or replaces the token record for an account. The
// original created_at survives an upsert.
func (s *tokenStore) Save(ctx context.Context, record domain.TokenRecord) error {
	if record.AccountID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tokens
			(account_id, access_token, refresh_token, token_type, scopes,
			 expiry, last_refresh, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			scopes = excluded.scopes,
			expiry = excluded.expiry,
			last_refresh = excluded.last_refresh,
			updated_at = excluded.updated_at
	`, string(record.AccountID), record.AccessToken, record.RefreshToken,
		record.TokenType, strings.Join(record.Scopes, " "),
		nullTime(record.Expiry), nullTime(record.LastRefresh),
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving token record: %w", err)
	}
	return nil
}

// Get retrieves the token record for an account.
func (s *tokenStore) Get(ctx context.Context, account domain.AccountID) (*domain.TokenRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT account_id, access_token, refresh_token, token_type, scopes,
		       expiry, last_refresh, created_at, updated_at
		FROM tokens WHERE account_id = ?
	`, string(account))

	record, err := scanToken(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning token record: %w", err)
	}
	return record, nil
}

// List returns all stored token records.
func (s *tokenStore) List(ctx context.Context) ([]domain.TokenRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT account_id, access_token, refresh_token, token_type, scopes,
		       expiry, last_refresh, created_at, updated_at
		FROM tokens ORDER BY account_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying token records: %w", err)
	}
	defer rows.Close()

	var records []domain.TokenRecord
	for rows.Next() {
		record, err := scanToken(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning token record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Delete removes the token record for an account.
func (s *tokenStore) Delete(ctx context.Context, account domain.AccountID) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM tokens WHERE account_id = ?", string(account))
	if err != nil {
		return fmt.Errorf("deleting token record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanToken(scan func(dest ...any) error) (*domain.TokenRecord, error) {
	var record domain.TokenRecord
	var accountID, scopes string
	var expiry, lastRefresh sql.NullTime

	if err := scan(&accountID, &record.AccessToken, &record.RefreshToken,
		&record.TokenType, &scopes, &expiry, &lastRefresh,
		&record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}

	record.AccountID = domain.AccountID(accountID)
	record.Scopes = strings.Fields(scopes)
	if expiry.Valid {
		record.Expiry = expiry.Time
	}
	if lastRefresh.Valid {
		record.LastRefresh = lastRefresh.Time
	}
	return &record, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
