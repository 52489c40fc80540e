package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/models"
)

// TieredStore reads from an ordered list of stores, fastest first. Writes
// go to every tier and succeed when at least one tier accepted the entry.
// A hit in a lower tier is not copied upward: stores stamp their own write
// time, so a copy would look fresher than the original.
type TieredStore struct {
	tiers  []Store
	logger zerolog.Logger
}

// NewTieredStore builds a TieredStore. Nil tiers are skipped.
func NewTieredStore(tiers ...Store) *TieredStore {
	ts := &TieredStore{
		logger: log.With().Str("component", "tiered_cache").Logger(),
	}
	for _, t := range tiers {
		if t != nil {
			ts.tiers = append(ts.tiers, t)
		}
	}
	return ts
}

// Read consults every tier and returns the most recently written entry, so a
// tier holding an old copy cannot shadow a newer one below it. ErrNotFound is
// returned only when every tier was consulted successfully and none had the key.
func (s *TieredStore) Read(ctx context.Context, namespace, key string) (*models.CacheEntry, error) {
	var newest *models.CacheEntry
	var errs []error
	for i, tier := range s.tiers {
		entry, err := tier.Read(ctx, namespace, key)
		switch {
		case err == nil:
			if newest == nil || entry.CachedAt > newest.CachedAt {
				newest = entry
			}
		case !errors.Is(err, ErrNotFound):
			errs = append(errs, fmt.Errorf("tier %d: %w", i, err))
		}
	}
	if newest != nil {
		return newest, nil
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNotFound
}

// Write stores payload in every tier.
func (s *TieredStore) Write(ctx context.Context, namespace, key string, payload json.RawMessage) error {
	if len(s.tiers) == 0 {
		return errors.New("cache: no tiers configured")
	}

	var errs []error
	for i, tier := range s.tiers {
		if err := tier.Write(ctx, namespace, key, payload); err != nil {
			errs = append(errs, fmt.Errorf("tier %d: %w", i, err))
		}
	}
	if len(errs) == len(s.tiers) {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		s.logger.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("partial cache write")
	}
	return nil
}

// Ensure TieredStore implements Store
var _ Store = (*TieredStore)(nil)
