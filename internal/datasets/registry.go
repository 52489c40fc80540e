// Package datasets describes the generated datasets served by the API: where
// each is cached, the prompt that produces it, and the schema it must match.
package datasets

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/trogers1052/prediction-service/internal/models"
)

// Dataset names.
const (
	Prices            = "prices"
	Predictions       = "predictions"
	Signals           = "signals"
	Whales            = "whales"
	DashboardSummary  = "dashboard-summary"
	Alerts            = "alerts"
	Backtests         = "backtests"
	CasinoProfiles    = "casino-profiles"
	PoliticalTracking = "political-tracking"
	StartupTracking   = "startup-tracking"
	StockFlow         = "stock-flow"
)

// Dataset is one cacheable, generated document.
type Dataset struct {
	Name      string
	Namespace string
	Key       string
	// Path is the legacy route the dataset is also served on.
	Path   string
	Prompt string
	// ErrorMessage is reported to clients when the generated text does not parse.
	ErrorMessage string
	// DefaultType applies to embedded predictions that omit or misstate their type.
	DefaultType models.PredictionType

	validate   func(json.RawMessage) error
	candidates func(json.RawMessage) ([]RawPrediction, error)
}

// Validate decodes payload into the dataset's schema and checks required fields.
func (d *Dataset) Validate(payload json.RawMessage) error {
	if d.validate == nil {
		return nil
	}
	return d.validate(payload)
}

// HasCandidates reports whether the dataset embeds per-signal prediction data.
func (d *Dataset) HasCandidates() bool {
	return d.candidates != nil
}

// Candidate is a signal set proposed by generated data, ready for the engine.
type Candidate struct {
	Type      models.PredictionType
	Asset     string
	Direction string
	Signals   []models.Signal
}

// Candidates extracts the signal sets embedded in payload. Entries with an
// unknown type, no asset or no signals are skipped.
func (d *Dataset) Candidates(payload json.RawMessage) ([]Candidate, error) {
	if d.candidates == nil {
		return nil, nil
	}
	raw, err := d.candidates(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to extract candidates from %s: %w", d.Name, err)
	}

	out := make([]Candidate, 0, len(raw))
	for _, p := range raw {
		t, ok := models.ParsePredictionType(p.Type)
		if !ok {
			t = d.DefaultType
		}
		if t == "" || p.Asset == "" || len(p.Signals) == 0 {
			continue
		}
		out = append(out, Candidate{
			Type:      t,
			Asset:     p.Asset,
			Direction: p.Prediction,
			Signals:   p.Signals,
		})
	}
	return out, nil
}

// Registry holds datasets by name.
type Registry struct {
	byName map[string]*Dataset
}

// NewRegistry builds a registry of the given datasets.
func NewRegistry(ds ...*Dataset) *Registry {
	r := &Registry{byName: make(map[string]*Dataset, len(ds))}
	for _, d := range ds {
		r.byName[d.Name] = d
	}
	return r
}

// Default returns a registry of every built-in dataset.
func Default() *Registry {
	return NewRegistry(builtin()...)
}

// Lookup returns the dataset with the given name.
func (r *Registry) Lookup(name string) (*Dataset, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns the datasets sorted by name.
func (r *Registry) All() []*Dataset {
	out := make([]*Dataset, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func builtin() []*Dataset {
	return []*Dataset{
		{
			Name: Prices, Namespace: "crypto_cache", Key: "prices", Path: "/api/v1/crypto/prices",
			Prompt: pricesPrompt, ErrorMessage: "Failed to parse price data",
			validate: schema(func(p *PricesPayload) error { return p.check() }),
		},
		{
			Name: Predictions, Namespace: "crypto_cache", Key: "predictions", Path: "/api/v1/crypto/predictions",
			Prompt: predictionsPrompt, ErrorMessage: "Failed to parse predictions",
			DefaultType: models.PredictionTypeCrypto,
			validate:    schema(func(p *PredictionsPayload) error { return p.check() }),
			candidates:  embedded(func(p *PredictionsPayload) []RawPrediction { return p.Predictions }),
		},
		{
			Name: Signals, Namespace: "crypto_cache", Key: "signals", Path: "/api/v1/crypto/signals",
			Prompt: signalsPrompt, ErrorMessage: "Failed to parse signals",
			validate: schema(func(p *SignalsPayload) error { return p.check() }),
		},
		{
			Name: Whales, Namespace: "crypto_cache", Key: "whales", Path: "/api/v1/crypto/whales",
			Prompt: whalesPrompt, ErrorMessage: "Failed to parse whale data",
			validate: schema(func(p *WhalesPayload) error { return p.check() }),
		},
		{
			Name: DashboardSummary, Namespace: "dashboard_cache", Key: "data", Path: "/api/v1/dashboard",
			Prompt: dashboardPrompt, ErrorMessage: "Failed to parse dashboard data",
			validate:   schema(func(p *DashboardPayload) error { return p.check() }),
			candidates: embedded(func(p *DashboardPayload) []RawPrediction { return p.ActivePredictions }),
		},
		{
			Name: Alerts, Namespace: "alerts_cache", Key: "data", Path: "/api/v1/alerts",
			Prompt: alertsPrompt, ErrorMessage: "Failed to parse alerts",
			validate: schema(func(p *AlertsPayload) error { return p.check() }),
		},
		{
			Name: Backtests, Namespace: "backtesting_cache", Key: "data", Path: "/api/v1/backtesting",
			Prompt: backtestsPrompt, ErrorMessage: "Failed to parse backtesting data",
			validate: schema(func(p *BacktestsPayload) error { return p.check() }),
		},
		{
			Name: CasinoProfiles, Namespace: "casino_cache", Key: "data", Path: "/api/v1/casino",
			Prompt: casinoPrompt, ErrorMessage: "Failed to parse casino data",
			validate: schema(func(p *CasinoPayload) error { return p.check() }),
		},
		{
			Name: PoliticalTracking, Namespace: "political_cache", Key: "data", Path: "/api/v1/political",
			Prompt: politicalPrompt, ErrorMessage: "Failed to parse political data",
			DefaultType: models.PredictionTypePolitical,
			validate:    schema(func(p *PoliticalPayload) error { return p.check() }),
			candidates:  embedded(func(p *PoliticalPayload) []RawPrediction { return p.Predictions }),
		},
		{
			Name: StartupTracking, Namespace: "startups_cache", Key: "data", Path: "/api/v1/startups",
			Prompt: startupsPrompt, ErrorMessage: "Failed to parse startup data",
			DefaultType: models.PredictionTypeStartup,
			validate:    schema(func(p *StartupsPayload) error { return p.check() }),
			candidates:  embedded(func(p *StartupsPayload) []RawPrediction { return p.Predictions }),
		},
		{
			Name: StockFlow, Namespace: "stocks_cache", Key: "data", Path: "/api/v1/stocks",
			Prompt: stocksPrompt, ErrorMessage: "Failed to parse stock data",
			DefaultType: models.PredictionTypeStock,
			validate:    schema(func(p *StocksPayload) error { return p.check() }),
			candidates:  embedded(func(p *StocksPayload) []RawPrediction { return p.Predictions }),
		},
	}
}

// Decode unmarshals payload into a typed dataset document.
func Decode[T any](payload json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("payload does not match schema: %w", err)
	}
	return &v, nil
}

func schema[T any](check func(*T) error) func(json.RawMessage) error {
	return func(payload json.RawMessage) error {
		v, err := Decode[T](payload)
		if err != nil {
			return err
		}
		return check(v)
	}
}

func embedded[T any](pick func(*T) []RawPrediction) func(json.RawMessage) ([]RawPrediction, error) {
	return func(payload json.RawMessage) ([]RawPrediction, error) {
		v, err := Decode[T](payload)
		if err != nil {
			return nil, err
		}
		return pick(v), nil
	}
}
