// Package retrieval serves generated datasets from cache, regenerating them
// when the cached copy is missing or older than its TTL.
package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/cache"
	"github.com/trogers1052/prediction-service/internal/config"
	"golang.org/x/sync/singleflight"
)

// Source tells where a result's data came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceFresh Source = "fresh"
)

// Cache lookup outcomes reported to the Observer.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupStale = "stale"
	LookupError = "error"
)

// Generation outcomes reported to the Observer.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeParseError = "parse_error"
)

// Result is a dataset payload tagged with its source. Persisted is false when
// fresh data could not be written back to the cache.
type Result struct {
	Source    Source          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Persisted bool            `json:"-"`
}

// RegenerateFunc produces the raw text expected to embed one JSON object.
type RegenerateFunc func(ctx context.Context) (string, error)

// ValidateFunc checks an extracted payload before it is cached or returned.
type ValidateFunc func(payload json.RawMessage) error

// Request describes one dataset lookup.
type Request struct {
	// Name labels the dataset in logs and metrics; defaults to namespace/key.
	Name       string
	Namespace  string
	Key        string
	TTL        time.Duration
	Regenerate RegenerateFunc
	Validate   ValidateFunc
}

func (r Request) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Namespace + "/" + r.Key
}

// Observer receives cache and generation outcomes.
type Observer interface {
	CacheLookup(dataset, result string)
	CacheWriteFailed(dataset string)
	Generation(dataset, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(string, string)               {}
func (nopObserver) CacheWriteFailed(string)                  {}
func (nopObserver) Generation(string, string, time.Duration) {}

// Orchestrator implements cache-aside retrieval over a Store.
type Orchestrator struct {
	store      cache.Store
	defaultTTL time.Duration
	now        func() time.Time
	observer   Observer
	group      *singleflight.Group
	logger     zerolog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used for age checks.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithObserver reports lookups and generations to obs.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// New creates an Orchestrator. cfg supplies the default TTL and whether
// concurrent regenerations of one key are collapsed into a single call.
func New(store cache.Store, cfg config.CacheConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		defaultTTL: cfg.TTL,
		now:        time.Now,
		observer:   nopObserver{},
		logger:     log.With().Str("component", "retrieval").Logger(),
	}
	if o.defaultTTL <= 0 {
		o.defaultTTL = config.DefaultCacheTTL
	}
	if cfg.DedupeInFlight {
		o.group = &singleflight.Group{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetOrRegenerate returns the cached payload for (namespace, key) when it is
// at most ttl old, and otherwise regenerates, parses and caches it. A ttl of
// zero uses the configured default.
func (o *Orchestrator) GetOrRegenerate(ctx context.Context, namespace, key string, regenerate RegenerateFunc, ttl time.Duration) (*Result, error) {
	return o.Fetch(ctx, Request{
		Namespace:  namespace,
		Key:        key,
		TTL:        ttl,
		Regenerate: regenerate,
	})
}

// Fetch is GetOrRegenerate with a validation step and a metrics label.
//
// Store faults never surface: a failed read is a miss and a failed write
// leaves Persisted false. Only *GenerationError and *ParseError are returned,
// and neither is cached.
func (o *Orchestrator) Fetch(ctx context.Context, req Request) (*Result, error) {
	ttl := req.TTL
	if ttl <= 0 {
		ttl = o.defaultTTL
	}
	dataset := req.label()
	logger := o.logger.With().Str("namespace", req.Namespace).Str("key", req.Key).Logger()

	entry, err := o.store.Read(ctx, req.Namespace, req.Key)
	switch {
	case err == nil:
		age := entry.Age(o.now())
		if age <= ttl {
			o.observer.CacheLookup(dataset, LookupHit)
			logger.Debug().Dur("age", age).Msg("Cache hit")
			return &Result{Source: SourceCache, Data: entry.Payload, Persisted: true}, nil
		}
		o.observer.CacheLookup(dataset, LookupStale)
		logger.Debug().Dur("age", age).Dur("ttl", ttl).Msg("Cache entry stale")
	case errors.Is(err, cache.ErrNotFound):
		o.observer.CacheLookup(dataset, LookupMiss)
	default:
		o.observer.CacheLookup(dataset, LookupError)
		logger.Warn().Err(err).Msg("Cache read failed, regenerating")
	}

	if o.group == nil {
		return o.regenerate(ctx, req, dataset, logger)
	}

	v, err, shared := o.group.Do(req.Namespace+"\x00"+req.Key, func() (interface{}, error) {
		return o.regenerate(ctx, req, dataset, logger)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug().Msg("Joined in-flight regeneration")
	}
	res := *v.(*Result)
	return &res, nil
}

func (o *Orchestrator) regenerate(ctx context.Context, req Request, dataset string, logger zerolog.Logger) (*Result, error) {
	started := o.now()
	raw, err := req.Regenerate(ctx)
	if err != nil {
		o.observer.Generation(dataset, OutcomeError, o.now().Sub(started))
		logger.Error().Err(err).Bool("timeout", IsTimeout(err)).Msg("Regeneration failed")
		return nil, &GenerationError{Namespace: req.Namespace, Key: req.Key, Err: err}
	}

	payload, err := ExtractJSON(raw)
	if err == nil && req.Validate != nil {
		err = req.Validate(payload)
	}
	if err != nil {
		o.observer.Generation(dataset, OutcomeParseError, o.now().Sub(started))
		logger.Error().Err(err).Int("raw_length", len(raw)).Msg("Failed to parse generated payload")
		return nil, &ParseError{Namespace: req.Namespace, Key: req.Key, Raw: raw, Err: err}
	}
	o.observer.Generation(dataset, OutcomeSuccess, o.now().Sub(started))

	persisted := true
	if err := o.store.Write(ctx, req.Namespace, req.Key, payload); err != nil {
		persisted = false
		o.observer.CacheWriteFailed(dataset)
		logger.Warn().Err(err).Msg("Cache write failed, returning fresh data")
	}

	return &Result{Source: SourceFresh, Data: payload, Persisted: persisted}, nil
}
