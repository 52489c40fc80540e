package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/trogers1052/prediction-service/internal/datasets"
	"github.com/trogers1052/prediction-service/internal/llm"
	"github.com/trogers1052/prediction-service/internal/retrieval"
)

type datasetInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Path      string `json:"path"`
	Derives   bool   `json:"derivesPredictions"`
}

// ListDatasets handles GET /datasets
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	all := h.Datasets.All()
	out := make([]datasetInfo, 0, len(all))
	for _, d := range all {
		out = append(out, datasetInfo{
			Name:      d.Name,
			Namespace: d.Namespace,
			Key:       d.Key,
			Path:      d.Path,
			Derives:   d.HasCandidates(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GetDataset handles GET /datasets/{name}
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	d, ok := h.Datasets.Lookup(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset: "+name)
		return
	}
	h.serveDataset(w, r, d)
}

// DatasetHandler serves a single dataset on its legacy path
func (h *Handler) DatasetHandler(d *datasets.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveDataset(w, r, d)
	}
}

func (h *Handler) serveDataset(w http.ResponseWriter, r *http.Request, d *datasets.Dataset) {
	// Generation outlives a disconnected client so the result still reaches the cache
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.GenerationTimeout)
	defer cancel()

	res, err := h.Fetcher.Fetch(ctx, retrieval.Request{
		Name:      d.Name,
		Namespace: d.Namespace,
		Key:       d.Key,
		TTL:       h.CacheTTL,
		Regenerate: func(ctx context.Context) (string, error) {
			return h.Generator.Generate(ctx, d.Prompt)
		},
		Validate: d.Validate,
	})
	if err != nil {
		h.respondFetchError(w, d, err)
		return
	}

	if res.Source == retrieval.SourceFresh {
		h.derivePredictions(ctx, d, res)
	}

	respondJSON(w, http.StatusOK, res)
}

func (h *Handler) derivePredictions(ctx context.Context, d *datasets.Dataset, res *retrieval.Result) {
	if h.Publisher == nil || !d.HasCandidates() {
		return
	}
	candidates, err := d.Candidates(res.Data)
	if err != nil {
		h.logger.Warn().Err(err).Str("dataset", d.Name).Msg("Failed to extract candidate signals")
		return
	}
	published := h.Publisher.PublishCandidates(ctx, candidates)
	h.logger.Debug().
		Str("dataset", d.Name).
		Int("candidates", len(candidates)).
		Int("published", len(published)).
		Msg("Derived predictions from fresh dataset")
}

func (h *Handler) respondFetchError(w http.ResponseWriter, d *datasets.Dataset, err error) {
	var parseErr *retrieval.ParseError
	var genErr *retrieval.GenerationError

	switch {
	case errors.As(err, &parseErr):
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: d.ErrorMessage, Raw: parseErr.Raw})
	case errors.As(err, &genErr) && errors.Is(err, llm.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &genErr) && retrieval.IsTimeout(err):
		respondError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &genErr):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error().Err(err).Str("dataset", d.Name).Msg("Unexpected dataset error")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
