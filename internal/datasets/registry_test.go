package datasets

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/prediction-service/internal/models"
)

func TestDefault_RegistersEveryDataset(t *testing.T) {
	r := Default()

	names := []string{
		Prices, Predictions, Signals, Whales, DashboardSummary, Alerts,
		Backtests, CasinoProfiles, PoliticalTracking, StartupTracking, StockFlow,
	}
	require.Len(t, r.All(), len(names))

	seenPaths := map[string]bool{}
	seenKeys := map[string]bool{}
	for _, name := range names {
		d, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, d.Namespace, name)
		assert.NotEmpty(t, d.Key, name)
		assert.NotEmpty(t, d.ErrorMessage, name)
		assert.True(t, strings.HasPrefix(d.Path, "/api/v1/"), name)
		assert.Contains(t, d.Prompt, "Return ONLY a valid JSON object", name)

		assert.False(t, seenPaths[d.Path], "duplicate path %s", d.Path)
		seenPaths[d.Path] = true
		cacheKey := d.Namespace + "/" + d.Key
		assert.False(t, seenKeys[cacheKey], "duplicate cache key %s", cacheKey)
		seenKeys[cacheKey] = true
	}

	_, ok := r.Lookup("weather")
	assert.False(t, ok)
}

func TestAll_SortedByName(t *testing.T) {
	all := Default().All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestCacheLocations(t *testing.T) {
	r := Default()

	tests := []struct {
		name      string
		namespace string
		key       string
	}{
		{Prices, "crypto_cache", "prices"},
		{Predictions, "crypto_cache", "predictions"},
		{Signals, "crypto_cache", "signals"},
		{Whales, "crypto_cache", "whales"},
		{DashboardSummary, "dashboard_cache", "data"},
		{Alerts, "alerts_cache", "data"},
		{Backtests, "backtesting_cache", "data"},
		{CasinoProfiles, "casino_cache", "data"},
		{PoliticalTracking, "political_cache", "data"},
		{StartupTracking, "startups_cache", "data"},
		{StockFlow, "stocks_cache", "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.namespace, d.Namespace)
			assert.Equal(t, tt.key, d.Key)
		})
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		dataset string
		payload string
		missing []string
		wantErr bool
	}{
		{"prices ok", Prices, `{"btc":{"price":97000.5,"change24h":-1.2},"eth":{"price":3400},"chartData":[]}`, nil, false},
		{"prices missing eth", Prices, `{"btc":{"price":1}}`, []string{"eth"}, true},
		{"alerts ok", Alerts, `{"alerts":[{"id":"a001","message":"m","type":"high","read":false}]}`, nil, false},
		{"alerts empty list is present", Alerts, `{"alerts":[]}`, nil, false},
		{"alerts null", Alerts, `{"alerts":null}`, []string{"alerts"}, true},
		{"dashboard missing both", DashboardSummary, `{}`, []string{"activePredictions", "performanceData"}, true},
		{"stocks missing predictions", StockFlow, `{"optionsFlow":[]}`, []string{"predictions"}, true},
		{"casino ok", CasinoProfiles, `{"dealerProfiles":[{"name":"Dealer #A-117","bustRate":31}],"insights":["x"]}`, nil, false},
		{"backtests ok", Backtests, `{"backtestResults":[],"paperTrading":{"startingCapital":100000}}`, nil, false},
		{"whales ok", Whales, `{"whaleActivity":[],"summary":"quiet","netFlow":"NET BUY"}`, nil, false},
		{"signals wrong type", Signals, `{"signals":"bullish"}`, nil, true},
		{"predictions strength not a number", Predictions, `{"predictions":[{"signals":[{"name":"a","strength":"high"}]}]}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := r.Lookup(tt.dataset)
			require.True(t, ok)

			err := d.Validate(json.RawMessage(tt.payload))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.missing != nil {
				var schemaErr *SchemaError
				require.True(t, errors.As(err, &schemaErr))
				assert.Equal(t, tt.missing, schemaErr.Missing)
			}
		})
	}
}

func TestValidate_NoValidatorAcceptsAnything(t *testing.T) {
	d := &Dataset{Name: "free-form"}
	assert.NoError(t, d.Validate(json.RawMessage(`{"anything":true}`)))
	assert.False(t, d.HasCandidates())
}

// ---------------------------------------------------------------------------
// Candidates
// ---------------------------------------------------------------------------

const cryptoPredictions = `{
	"predictions": [
		{
			"id": "pred_btc_001", "type": "CRYPTO", "asset": "BTC", "prediction": "PUMP", "confidence": 84,
			"signals": [
				{"name": "whale_accumulation", "active": true, "strength": 0.9, "detail": "12k BTC to cold storage"},
				{"name": "social_surge", "active": true, "strength": 0.8},
				{"name": "exchange_outflow", "active": true, "strength": 0.75},
				{"name": "volume_spike", "active": true, "strength": 0.7},
				{"name": "correlation_break", "active": false, "strength": 0.1}
			]
		},
		{"id": "pred_eth_001", "asset": "ETH", "prediction": "DUMP", "signals": [{"name": "volume_spike", "active": true, "strength": 0.6}]},
		{"id": "pred_empty", "type": "CRYPTO", "asset": "SOL", "signals": []}
	],
	"accuracy": {"overall": 71, "totalPredictions": 20, "correct": 14}
}`

func TestCandidates_CryptoPredictions(t *testing.T) {
	d, _ := Default().Lookup(Predictions)
	require.True(t, d.HasCandidates())

	candidates, err := d.Candidates(json.RawMessage(cryptoPredictions))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	btc := candidates[0]
	assert.Equal(t, models.PredictionTypeCrypto, btc.Type)
	assert.Equal(t, "BTC", btc.Asset)
	assert.Equal(t, "PUMP", btc.Direction)
	require.Len(t, btc.Signals, 5)
	assert.Equal(t, "whale_accumulation", btc.Signals[0].Name)
	assert.Equal(t, "12k BTC to cold storage", btc.Signals[0].Detail)
	assert.False(t, btc.Signals[4].Active)

	// missing type falls back to the dataset default
	assert.Equal(t, models.PredictionTypeCrypto, candidates[1].Type)
	assert.Equal(t, "ETH", candidates[1].Asset)
}

func TestCandidates_DashboardSkipsUnknownTypes(t *testing.T) {
	d, _ := Default().Lookup(DashboardSummary)

	payload := `{
		"activePredictions": [
			{"type": "stock", "asset": "NVDA", "prediction": "BULLISH", "signals": [{"name": "options_surge", "active": true, "strength": 0.8}]},
			{"type": "WEATHER", "asset": "NYC", "signals": [{"name": "rain", "active": true, "strength": 1}]},
			{"type": "POLITICAL", "asset": "", "signals": [{"name": "betting_markets", "active": true, "strength": 1}]}
		],
		"performanceData": {}
	}`

	candidates, err := d.Candidates(json.RawMessage(payload))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.PredictionTypeStock, candidates[0].Type)
	assert.Equal(t, "NVDA", candidates[0].Asset)
}

func TestCandidates_DatasetsWithoutSignals(t *testing.T) {
	r := Default()
	for _, name := range []string{Prices, Signals, Whales, Alerts, Backtests, CasinoProfiles} {
		d, _ := r.Lookup(name)
		assert.False(t, d.HasCandidates(), name)

		candidates, err := d.Candidates(json.RawMessage(`{}`))
		assert.NoError(t, err)
		assert.Empty(t, candidates)
	}
}

func TestCandidates_MalformedPayload(t *testing.T) {
	d, _ := Default().Lookup(StockFlow)
	_, err := d.Candidates(json.RawMessage(`{"predictions": {"not": "a list"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock-flow")
}
