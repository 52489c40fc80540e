package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/prediction-service/internal/cache"
	"github.com/trogers1052/prediction-service/internal/config"
	"github.com/trogers1052/prediction-service/internal/models"
)

// PredictionsChannel is the pub/sub channel carrying published predictions.
const PredictionsChannel = "predictions"

// Client wraps the Redis client with dataset cache operations
type Client struct {
	rdb *redis.Client
	now func() time.Time
}

// New creates a new Redis client
func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewFromClient(rdb), nil
}

// NewFromClient wraps an existing go-redis client
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb, now: time.Now}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Dataset cache operations

// EntryKey returns the Redis key for a cached dataset
func EntryKey(namespace, key string) string {
	return fmt.Sprintf("cache:%s:%s", namespace, key)
}

// Read retrieves a cached dataset entry
func (c *Client) Read(ctx context.Context, namespace, key string) (*models.CacheEntry, error) {
	data, err := c.rdb.Get(ctx, EntryKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %s/%s: %w", namespace, key, err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry %s/%s: %w", namespace, key, err)
	}
	return &entry, nil
}

// Write stores a dataset entry stamped with the current time. Keys carry no
// Redis expiry: staleness is judged by the reader against cachedAt.
func (c *Client) Write(ctx context.Context, namespace, key string, payload json.RawMessage) error {
	entry := models.CacheEntry{
		Namespace: namespace,
		Key:       key,
		Payload:   payload,
		CachedAt:  c.now().UnixMilli(),
	}
	data, err := encodeEntry(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.rdb.Set(ctx, EntryKey(namespace, key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry %s/%s: %w", namespace, key, err)
	}
	return nil
}

// encodeEntry marshals entry without HTML escaping so the payload bytes are
// stored exactly as given.
func encodeEntry(entry models.CacheEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Pub/Sub operations for real-time updates

// PublishPrediction announces a prediction on the predictions channel
func (c *Client) PublishPrediction(ctx context.Context, p *models.Prediction) error {
	return c.Publish(ctx, PredictionsChannel, p)
}

// Publish publishes a message to a channel
func (c *Client) Publish(ctx context.Context, channel string, message interface{}) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return c.rdb.Publish(ctx, channel, jsonData).Err()
}

// Ensure Client implements cache.Store
var _ cache.Store = (*Client)(nil)
