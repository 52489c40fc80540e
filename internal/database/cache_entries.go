package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trogers1052/prediction-service/internal/cache"
	"github.com/trogers1052/prediction-service/internal/models"
)

// Read retrieves a cached dataset entry
func (db *DB) Read(ctx context.Context, namespace, key string) (*models.CacheEntry, error) {
	query := `
		SELECT namespace, key, payload, cached_at
		FROM cache_entries
		WHERE namespace = $1 AND key = $2
	`

	var entry models.CacheEntry
	var payload []byte
	err := db.conn.QueryRowContext(ctx, query, namespace, key).Scan(
		&entry.Namespace, &entry.Key, &payload, &entry.CachedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %s/%s: %w", namespace, key, err)
	}

	entry.Payload = json.RawMessage(payload)
	return &entry, nil
}

// Write inserts or replaces a cached dataset entry stamped with the current time
func (db *DB) Write(ctx context.Context, namespace, key string, payload json.RawMessage) error {
	query := `
		INSERT INTO cache_entries (namespace, key, payload, cached_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			cached_at = EXCLUDED.cached_at
	`

	// lib/pq sends []byte as bytea; the JSON column needs text.
	_, err := db.conn.ExecContext(ctx, query, namespace, key, string(payload), db.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Ensure DB implements cache.Store
var _ cache.Store = (*DB)(nil)
