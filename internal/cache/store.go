// Package cache defines the dataset cache store contract and its in-process
// implementations.
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/trogers1052/prediction-service/internal/models"
)

// ErrNotFound is returned by Read when no entry exists for the key.
var ErrNotFound = errors.New("cache: entry not found")

// Store persists dataset payloads keyed by namespace and key.
//
// Contract:
//   - Read returns ErrNotFound on absence; any other error means the store
//     could not be consulted.
//   - Write stamps CachedAt from the store's own clock and overwrites any
//     existing entry. Entries are never expired by the store.
//   - Implementations must be safe for concurrent use; last write wins.
type Store interface {
	Read(ctx context.Context, namespace, key string) (*models.CacheEntry, error)
	Write(ctx context.Context, namespace, key string, payload json.RawMessage) error
}
