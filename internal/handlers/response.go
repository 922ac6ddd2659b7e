// Package handlers provides HTTP request handlers for the API endpoints.
// It maps analysis results and failures onto JSON responses and status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/extract"
	"github.com/charnet/core/internal/logger"
)

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

func writeReadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "Failed to read body", http.StatusBadRequest)
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var (
		cfgErr *config.ConfigurationError
		extErr *extract.ExtractionError
	)

	switch {
	case errors.As(err, &cfgErr):
		http.Error(w, "Invalid options: "+cfgErr.Error(), http.StatusBadRequest)
	case errors.As(err, &extErr) && errors.Is(err, extract.ErrUnsupported):
		http.Error(w, extErr.Error(), http.StatusUnsupportedMediaType)
	case errors.As(err, &extErr):
		http.Error(w, extErr.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Analysis cancelled", "error", err)
		http.Error(w, "Analysis cancelled", http.StatusServiceUnavailable)
	default:
		logger.Error("Analysis failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
