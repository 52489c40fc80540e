package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is a cached dataset document.
type CacheEntry struct {
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	// CachedAt is milliseconds since the epoch, stamped by the store on write.
	CachedAt int64 `json:"cachedAt"`
}

// Age returns how old the entry is relative to now.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.CachedAt) * time.Millisecond
}
