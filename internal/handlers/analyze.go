// Package handlers provides HTTP request handlers for the API endpoints.
// It maps analysis results and failures onto JSON responses and status codes.
package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/extract"
	"github.com/charnet/core/internal/logger"
	"github.com/charnet/core/internal/ner"
	"github.com/charnet/core/internal/parser"
	"github.com/charnet/core/internal/pipeline"
)

// AnalyzeHandler runs the pipeline over a JSON mention payload. Options in
// the payload override defaults for that request only.
func AnalyzeHandler(defaults config.Options, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := readBody(w, r, maxBodyBytes)
		if err != nil {
			writeReadError(w, err)
			return
		}

		req, err := parser.ParseAnalyzeRequest(body)
		if err != nil {
			http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}

		run, err := pipeline.New(req.Options.Apply(defaults))
		if err != nil {
			writeAnalysisError(w, err)
			return
		}

		report, err := run.Execute(r.Context(), req.Stream())
		if err != nil {
			writeAnalysisError(w, err)
			return
		}

		logger.Info("Analysis complete", "run", report.RunID, "mentions", report.MentionCount, "nodes", len(report.Graph.Nodes))
		writeJSON(w, r, report)
	}
}

// AnalyzeTextHandler extracts text from the request body, chosen by its
// Content-Type, runs recognizer over it and analyzes the mentions. Options
// come from query parameters.
func AnalyzeTextHandler(defaults config.Options, maxBodyBytes int64, recognizer ner.Recognizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		overrides, err := parser.OverridesFromQuery(r.URL.Query())
		if err != nil {
			http.Error(w, "Invalid options: "+err.Error(), http.StatusBadRequest)
			return
		}

		run, err := pipeline.New(overrides.Apply(defaults))
		if err != nil {
			writeAnalysisError(w, err)
			return
		}

		extractor, err := extract.ForContentType(r.Header.Get("Content-Type"))
		if err != nil {
			writeAnalysisError(w, err)
			return
		}

		body, err := readBody(w, r, maxBodyBytes)
		if err != nil {
			writeReadError(w, err)
			return
		}

		doc, err := extractor.Extract(r.Context(), bytes.NewReader(body))
		if err != nil {
			writeAnalysisError(w, err)
			return
		}

		report, err := run.Execute(r.Context(), recognizer.Recognize(r.Context(), doc.Text))
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		report.Title = doc.Title
		report.DocumentLength = doc.Length

		logger.Info("Text analysis complete", "run", report.RunID, "format", doc.Format, "length", doc.Length, "mentions", report.MentionCount)
		writeJSON(w, r, report)
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("missing body")
	}
	defer r.Body.Close()

	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}
