package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/datasets"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/models"
	"github.com/trogers1052/prediction-service/internal/retrieval"
)

// Fetcher resolves datasets from cache or by regeneration
type Fetcher interface {
	Fetch(ctx context.Context, req retrieval.Request) (*retrieval.Result, error)
}

// Generator produces raw dataset text from a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Evaluator runs signal sets through the engine and publishes predictions
type Evaluator interface {
	Evaluate(ctx context.Context, predictionType models.PredictionType, asset, direction string, signals []models.Signal) (engine.Evaluation, error)
	PublishCandidates(ctx context.Context, candidates []datasets.Candidate) []*models.Prediction
}

// PredictionStore reads and resolves stored predictions
type PredictionStore interface {
	GetPrediction(ctx context.Context, id string) (*models.Prediction, error)
	ListPredictions(ctx context.Context, predictionType models.PredictionType, limit int) ([]*models.Prediction, error)
	SetPredictionOutcome(ctx context.Context, id string, outcome models.Outcome) error
}

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds the handler dependencies. Publisher, Store, Postgres and Redis
// may be nil.
type Deps struct {
	Datasets  *datasets.Registry
	Fetcher   Fetcher
	Generator Generator
	Engine    *engine.Engine
	Publisher Evaluator
	Store     PredictionStore

	CacheTTL          time.Duration
	GenerationTimeout time.Duration

	Postgres     Pinger
	Redis        Pinger
	KafkaEnabled bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	Deps
	logger zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(deps Deps) *Handler {
	if deps.GenerationTimeout <= 0 {
		deps.GenerationTimeout = 90 * time.Second
	}
	return &Handler{
		Deps:   deps,
		logger: log.With().Str("component", "api").Logger(),
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  map[string]string{},
	}
	services := health["services"].(map[string]string)
	allHealthy := true

	// Check database
	if h.Postgres != nil {
		if err := h.Postgres.Ping(ctx); err != nil {
			services["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			services["postgres"] = "healthy"
		}
	} else {
		services["postgres"] = "not configured"
	}

	// Check Redis
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	if h.KafkaEnabled {
		services["kafka"] = "configured"
	} else {
		services["kafka"] = "not configured"
	}

	if h.Generator != nil && h.Generator.Configured() {
		services["llm"] = "configured"
	} else {
		services["llm"] = "not configured"
		allHealthy = false
	}

	if !allHealthy {
		health["status"] = "degraded"
	}

	respondJSON(w, http.StatusOK, health)
}

type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
