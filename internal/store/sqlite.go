// Package store persists vendor lookup results between runs.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
)

// ContactCache is a SQLite-backed cache of Places lookup results. Empty
// contacts are cached too, so a vendor that produced no match isn't
// re-queried on every run inside the TTL window.
type ContactCache struct {
	db      *sql.DB
	ttlDays int
}

// NewContactCache opens (or creates) the cache database at path. A ttlDays
// of zero disables expiry.
func NewContactCache(path string, ttlDays int) (*ContactCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &ContactCache{db: db, ttlDays: ttlDays}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS contact_cache (
	name_hash TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	contact   TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_contact_cache_cached_at ON contact_cache(cached_at);
`

// Migrate creates the cache schema.
func (c *ContactCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

// Close closes the underlying database.
func (c *ContactCache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the exact company name. Names are matched
// byte-for-byte: no case folding or normalization.
func cacheKey(name string) string {
	h := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%x", h)
}

// Get looks up a cached contact, respecting TTL if configured. The second
// return reports whether a fresh entry existed.
func (c *ContactCache) Get(ctx context.Context, name string) (*model.VendorContact, bool, error) {
	query := `SELECT contact FROM contact_cache WHERE name_hash = ?`
	args := []any{cacheKey(name)}

	if c.ttlDays > 0 {
		query += fmt.Sprintf(" AND cached_at > datetime('now', '-%d days')", c.ttlDays)
	}

	var raw string
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: get")
	}

	var contact model.VendorContact
	if err := json.Unmarshal([]byte(raw), &contact); err != nil {
		return nil, false, eris.Wrap(err, "cache: unmarshal contact")
	}

	zap.L().Debug("cache: hit", zap.String("vendor", name))
	return &contact, true, nil
}

// Put upserts a lookup result, refreshing cached_at.
func (c *ContactCache) Put(ctx context.Context, name string, contact model.VendorContact) error {
	raw, err := json.Marshal(contact)
	if err != nil {
		return eris.Wrap(err, "cache: marshal contact")
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO contact_cache (name_hash, name, contact, cached_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT (name_hash) DO UPDATE SET
			contact   = excluded.contact,
			cached_at = excluded.cached_at`,
		cacheKey(name), name, string(raw),
	)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}
