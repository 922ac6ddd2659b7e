// Package main starts an HTTP server that provides endpoints for health checks
// and character network analysis. It uses the internal handlers package to
// process incoming requests and return JSON responses.
package main

import (
	"flag"
	"net/http"

	"github.com/charnet/core/cmd/api/middleware"
	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/handlers"
	"github.com/charnet/core/internal/logger"
	"github.com/charnet/core/internal/logger/console"
	"github.com/charnet/core/internal/ner"
)

func setupRouter(settings *config.Settings) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HealthHandler(settings.Analysis))
	mux.HandleFunc("/analyze", handlers.AnalyzeHandler(settings.Analysis, settings.MaxBodyBytes))
	mux.HandleFunc("/analyze/text", handlers.AnalyzeTextHandler(
		settings.Analysis,
		settings.MaxBodyBytes,
		ner.NewHeuristic(settings.Analysis.MaxNameWords),
	))

	return middleware.Cors(settings.CORSOrigin)(middleware.RequestLogger(mux))
}

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	config.LoadEnv()

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{Prefix: "charnet"}))
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  settings.Debug,
		Prefix: "charnet",
	}))

	logger.Info("🚀 Server starting", "addr", settings.Addr, "top_n", settings.Analysis.TopN)
	if err := http.ListenAndServe(settings.Addr, setupRouter(settings)); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
