// Package handlers provides HTTP request handlers for the API endpoints.
// It maps analysis results and failures onto JSON responses and status codes.
package handlers

import (
	"encoding/json"
	"maps"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/extract"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

var startTime = time.Now()

// HealthHandler reports liveness along with the analysis defaults a run
// starts from when a request sets no options.
func HealthHandler(defaults config.Options) http.HandlerFunc {
	analysis := map[string]string{
		"formats":            strings.Join(extract.Formats, ","),
		"top_n":              strconv.Itoa(defaults.TopN),
		"max_louvain_passes": strconv.Itoa(defaults.MaxLouvainPasses),
		"resolution":         strconv.FormatFloat(defaults.Resolution, 'g', -1, 64),
		"resolver":           defaults.Resolver,
		"weighted":           strconv.FormatBool(defaults.Weighted),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		details := map[string]string{
			"go_version": runtime.Version(),
			"num_cpu":    strconv.Itoa(runtime.NumCPU()),
		}
		maps.Copy(details, analysis)

		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   "charnet-api",
			Uptime:    time.Since(startTime).String(),
			Details:   details,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
