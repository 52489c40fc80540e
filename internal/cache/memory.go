package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/trogers1052/prediction-service/internal/models"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an empty MemoryStore stamping entries with now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]models.CacheEntry),
		now:     now,
	}
}

func memoryKey(namespace, key string) string {
	return namespace + "\x00" + key
}

// Read returns a copy of the stored entry.
func (s *MemoryStore) Read(_ context.Context, namespace, key string) (*models.CacheEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[memoryKey(namespace, key)]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	entry.Payload = append(json.RawMessage(nil), entry.Payload...)
	return &entry, nil
}

// Write stores a copy of payload.
func (s *MemoryStore) Write(_ context.Context, namespace, key string, payload json.RawMessage) error {
	entry := models.CacheEntry{
		Namespace: namespace,
		Key:       key,
		Payload:   append(json.RawMessage(nil), payload...),
		CachedAt:  s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.entries[memoryKey(namespace, key)] = entry
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
