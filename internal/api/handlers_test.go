package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/prediction-service/internal/cache"
	"github.com/trogers1052/prediction-service/internal/config"
	"github.com/trogers1052/prediction-service/internal/database"
	"github.com/trogers1052/prediction-service/internal/datasets"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/llm"
	"github.com/trogers1052/prediction-service/internal/models"
	"github.com/trogers1052/prediction-service/internal/retrieval"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type fakeGenerator struct {
	mu         sync.Mutex
	text       string
	err        error
	calls      int
	configured bool
}

func (g *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.text, g.err
}

func (g *fakeGenerator) Configured() bool { return g.configured }

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeEvaluator struct {
	mu         sync.Mutex
	candidates []datasets.Candidate
}

func (f *fakeEvaluator) Evaluate(context.Context, models.PredictionType, string, string, []models.Signal) (engine.Evaluation, error) {
	return engine.Evaluation{}, errors.New("not used")
}

func (f *fakeEvaluator) PublishCandidates(_ context.Context, candidates []datasets.Candidate) []*models.Prediction {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = append(f.candidates, candidates...)
	return nil
}

type fakeStore struct {
	mu          sync.Mutex
	predictions map[string]*models.Prediction
	listType    models.PredictionType
	listLimit   int
	err         error
}

func newFakeStore(preds ...*models.Prediction) *fakeStore {
	s := &fakeStore{predictions: make(map[string]*models.Prediction)}
	for _, p := range preds {
		s.predictions[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetPrediction(_ context.Context, id string) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.predictions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrPredictionNotFound, id)
	}
	return p, nil
}

func (s *fakeStore) ListPredictions(_ context.Context, t models.PredictionType, limit int) ([]*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listType, s.listLimit = t, limit
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.Prediction, 0, len(s.predictions))
	for _, p := range s.predictions {
		if t == "" || p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) SetPredictionOutcome(_ context.Context, id string, outcome models.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.predictions[id]
	if !ok {
		return fmt.Errorf("%w: %s", database.ErrPredictionNotFound, id)
	}
	if p.Resolved() {
		return fmt.Errorf("%w: %s", database.ErrAlreadyResolved, id)
	}
	p.Outcome = &outcome
	p.Status = models.StatusResolved
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type testServer struct {
	handler *Handler
	router  *mux.Router
	gen     *fakeGenerator
	store   *cache.MemoryStore
}

func newTestServer(t *testing.T, deps Deps) *testServer {
	t.Helper()

	gen, _ := deps.Generator.(*fakeGenerator)
	if gen == nil {
		gen = &fakeGenerator{configured: true}
		deps.Generator = gen
	}
	store := cache.NewMemoryStore()
	if deps.Fetcher == nil {
		deps.Fetcher = retrieval.New(store, config.CacheConfig{TTL: time.Minute})
	}
	if deps.Datasets == nil {
		deps.Datasets = datasets.Default()
	}
	if deps.Engine == nil {
		deps.Engine = engine.New(config.DefaultEngineConfig())
	}

	h := NewHandler(deps)
	return &testServer{
		handler: h,
		router:  SetupRoutes(h, nil),
		gen:     gen,
		store:   store,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type datasetResponse struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func activeSignals(n int, strength float64) []models.Signal {
	out := make([]models.Signal, 5)
	for i := range out {
		out[i] = models.Signal{Name: fmt.Sprintf("signal_%d", i), Active: i < n, Strength: strength}
	}
	return out
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealthCheck_Healthy(t *testing.T) {
	s := newTestServer(t, Deps{Postgres: fakePinger{}, Redis: fakePinger{}, KafkaEnabled: true})

	rec := s.do(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "healthy", services["postgres"])
	assert.Equal(t, "healthy", services["redis"])
	assert.Equal(t, "configured", services["kafka"])
	assert.Equal(t, "configured", services["llm"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	s := newTestServer(t, Deps{
		Generator: &fakeGenerator{},
		Redis:     fakePinger{err: errors.New("connection refused")},
	})

	rec := s.do(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "degraded", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "not configured", services["postgres"])
	assert.Equal(t, "unhealthy: connection refused", services["redis"])
	assert.Equal(t, "not configured", services["llm"])
}

// ---------------------------------------------------------------------------
// Datasets
// ---------------------------------------------------------------------------

func TestListDatasets(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := s.do(t, http.MethodGet, "/api/v1/datasets", "")

	require.Equal(t, http.StatusOK, rec.Code)
	infos := decode[[]datasetInfo](t, rec)
	require.Len(t, infos, len(datasets.Default().All()))
	for _, info := range infos {
		if info.Name == datasets.Predictions {
			assert.True(t, info.Derives)
			assert.Equal(t, "crypto_cache", info.Namespace)
		}
	}
}

func TestDataset_MissThenHit(t *testing.T) {
	s := newTestServer(t, Deps{})
	s.gen.text = `Here is the data: {"btc": {"price": 1}, "eth": {"price": 2}} hope it helps`

	first := s.do(t, http.MethodGet, "/api/v1/crypto/prices", "")
	require.Equal(t, http.StatusOK, first.Code)
	res := decode[datasetResponse](t, first)
	assert.Equal(t, "fresh", res.Source)
	assert.JSONEq(t, `{"btc":{"price":1},"eth":{"price":2}}`, string(res.Data))

	second := s.do(t, http.MethodGet, "/api/v1/datasets/prices", "")
	require.Equal(t, http.StatusOK, second.Code)
	res2 := decode[datasetResponse](t, second)
	assert.Equal(t, "cache", res2.Source)
	assert.Equal(t, string(res.Data), string(res2.Data))

	assert.Equal(t, 1, s.gen.Calls())
	assert.Equal(t, 1, s.store.Len())
}

func TestDataset_Unknown(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := s.do(t, http.MethodGet, "/api/v1/datasets/horoscopes", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, s.gen.Calls())
}

func TestDataset_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		err        error
		wantStatus int
		wantError  string
		wantRaw    string
	}{
		{
			name:       "no JSON object",
			text:       "I cannot help with that",
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to parse price data",
			wantRaw:    "I cannot help with that",
		},
		{
			name:       "missing required fields",
			text:       `{"btc": {"price": 1}}`,
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to parse price data",
			wantRaw:    `{"btc": {"price": 1}}`,
		},
		{
			name:       "generator not configured",
			err:        fmt.Errorf("generate: %w", llm.ErrNotConfigured),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "generation timed out",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "upstream failure",
			err:        errors.New("responses API returned 500"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Deps{})
			s.gen.text, s.gen.err = tt.text, tt.err

			rec := s.do(t, http.MethodGet, "/api/v1/crypto/prices", "")

			require.Equal(t, tt.wantStatus, rec.Code)
			body := decode[errorResponse](t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			} else {
				assert.NotEmpty(t, body.Error)
			}
			assert.Equal(t, tt.wantRaw, body.Raw)
			assert.Zero(t, s.store.Len(), "failures are never cached")
		})
	}
}

func TestDataset_FreshResultDerivesPredictions(t *testing.T) {
	evaluator := &fakeEvaluator{}
	s := newTestServer(t, Deps{Publisher: evaluator})

	payload := map[string]interface{}{
		"predictions": []map[string]interface{}{
			{"id": "p1", "asset": "BTC", "prediction": "PUMP", "signals": activeSignals(5, 0.9)},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	s.gen.text = string(raw)

	rec := s.do(t, http.MethodGet, "/api/v1/crypto/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, evaluator.candidates, 1)
	c := evaluator.candidates[0]
	assert.Equal(t, models.PredictionTypeCrypto, c.Type)
	assert.Equal(t, "BTC", c.Asset)
	assert.Equal(t, "PUMP", c.Direction)

	// Cached reads do not derive again.
	rec = s.do(t, http.MethodGet, "/api/v1/crypto/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", decode[datasetResponse](t, rec).Source)
	assert.Len(t, evaluator.candidates, 1)
}

// ---------------------------------------------------------------------------
// Predictions
// ---------------------------------------------------------------------------

func TestEvaluateSignals_Published(t *testing.T) {
	s := newTestServer(t, Deps{})

	body := `{"type":"crypto","asset":"BTC","prediction":"PUMP","signals":` + mustJSON(t, activeSignals(4, 0.85)) + `}`
	rec := s.do(t, http.MethodPost, "/api/v1/predictions/evaluate", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(85), resp["confidence"])
	assert.Equal(t, "high", resp["tier"])
	pred := resp["prediction"].(map[string]interface{})
	assert.Equal(t, "CRYPTO", pred["type"])
	assert.Equal(t, "PUMP", pred["prediction"])
	assert.Equal(t, "PUMP", pred["label"])
}

func TestEvaluateSignals_NotConverged(t *testing.T) {
	s := newTestServer(t, Deps{})

	body := `{"type":"STOCK","asset":"AAPL","signals":` + mustJSON(t, activeSignals(3, 0.95)) + `}`
	rec := s.do(t, http.MethodPost, "/api/v1/predictions/evaluate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]interface{}](t, rec)
	assert.Nil(t, resp["prediction"])
	assert.Equal(t, engine.ReasonInsufficientConvergence, resp["reason"])
}

func TestEvaluateSignals_BadRequest(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := map[string]string{
		"malformed body": `{"type":`,
		"unknown type":   `{"type":"FOREX","asset":"EURUSD"}`,
		"missing asset":  `{"type":"CRYPTO","asset":"  "}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/predictions/evaluate", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func samplePredictions() []*models.Prediction {
	correct := models.OutcomeCorrect
	incorrect := models.OutcomeIncorrect
	return []*models.Prediction{
		{ID: "a", Type: models.PredictionTypeCrypto, Asset: "BTC", Direction: "EARNINGS_BEAT", Confidence: 82, Status: models.StatusResolved, Outcome: &correct},
		{ID: "b", Type: models.PredictionTypeCrypto, Asset: "ETH", Confidence: 74, Status: models.StatusResolved, Outcome: &incorrect},
		{ID: "c", Type: models.PredictionTypeStock, Asset: "NVDA", Confidence: 71, Status: models.StatusActive},
	}
}

func TestListPredictions(t *testing.T) {
	store := newFakeStore(samplePredictions()...)
	s := newTestServer(t, Deps{Store: store})

	rec := s.do(t, http.MethodGet, "/api/v1/predictions?type=crypto&limit=1000", "")

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[[]map[string]interface{}](t, rec)
	assert.Len(t, out, 2)
	assert.Equal(t, models.PredictionTypeCrypto, store.listType)
	assert.Equal(t, maxListLimit, store.listLimit)
}

func TestListPredictions_BadFilters(t *testing.T) {
	s := newTestServer(t, Deps{Store: newFakeStore()})

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/predictions?type=FOREX", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/predictions?limit=-3", "").Code)
}

func TestPredictionRoutes_StoreNotConfigured(t *testing.T) {
	s := newTestServer(t, Deps{})

	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/v1/predictions", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/v1/predictions/a", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/v1/predictions/metrics", "").Code)
}

func TestGetPrediction(t *testing.T) {
	s := newTestServer(t, Deps{Store: newFakeStore(samplePredictions()...)})

	rec := s.do(t, http.MethodGet, "/api/v1/predictions/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "BTC", out["asset"])
	assert.Equal(t, "EARNINGS BEAT", out["label"])
	assert.Equal(t, "high", out["tier"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/predictions/zzz", "").Code)
}

func TestSetOutcome(t *testing.T) {
	s := newTestServer(t, Deps{Store: newFakeStore(samplePredictions()...)})

	rec := s.do(t, http.MethodPut, "/api/v1/predictions/c/outcome", `{"outcome":" Correct "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "correct", out["outcome"])
	assert.Equal(t, "resolved", out["status"])

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPut, "/api/v1/predictions/c/outcome", `{"outcome":"incorrect"}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/v1/predictions/zzz/outcome", `{"outcome":"correct"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/v1/predictions/c/outcome", `{"outcome":"maybe"}`).Code)
}

func TestGetMetrics(t *testing.T) {
	store := newFakeStore(samplePredictions()...)
	s := newTestServer(t, Deps{Store: store})

	rec := s.do(t, http.MethodGet, "/api/v1/predictions/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.PerformanceSummary](t, rec)
	assert.Equal(t, 3, summary.TotalPredictions)
	assert.Equal(t, 2, summary.Resolved)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 50, summary.Accuracy)
	assert.Equal(t, 1, summary.FalsePositive)
	assert.Equal(t, 0, summary.FalseNegative)
	assert.Equal(t, 0, store.listLimit)
}

func TestGetConfidenceTier(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := map[string]string{"80": "high", "79": "medium", "70": "medium", "69": "low", "0": "low"}
	for value, want := range tests {
		rec := s.do(t, http.MethodGet, "/api/v1/confidence/"+value, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, decode[map[string]interface{}](t, rec)["tier"], value)
	}

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/confidence/101", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/confidence/high", "").Code)
}

func TestGetSignalTypes(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := s.do(t, http.MethodGet, "/api/v1/signals/types", "")

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(config.DefaultConvergenceThreshold), out["convergenceThreshold"])
	types := out["signalTypes"].(map[string]interface{})
	assert.Len(t, types, len(models.PredictionTypes))
	assert.Len(t, types["CASINO"], 5)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
