package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes. metrics serves /metrics when non-nil.
func SetupRoutes(handler *Handler, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Dataset routes
	api.HandleFunc("/datasets", handler.ListDatasets).Methods("GET")
	api.HandleFunc("/datasets/{name}", handler.GetDataset).Methods("GET")
	for _, d := range handler.Datasets.All() {
		r.HandleFunc(d.Path, handler.DatasetHandler(d)).Methods("GET")
	}

	// Prediction routes
	api.HandleFunc("/predictions", handler.ListPredictions).Methods("GET")
	api.HandleFunc("/predictions/evaluate", handler.EvaluateSignals).Methods("POST")
	api.HandleFunc("/predictions/metrics", handler.GetMetrics).Methods("GET")
	api.HandleFunc("/predictions/{id}", handler.GetPrediction).Methods("GET")
	api.HandleFunc("/predictions/{id}/outcome", handler.SetOutcome).Methods("PUT")

	// Engine routes
	api.HandleFunc("/confidence/{value}", handler.GetConfidenceTier).Methods("GET")
	api.HandleFunc("/signals/types", handler.GetSignalTypes).Methods("GET")

	return r
}
