// Package parser provides utilities for parsing and transforming input data.
// It handles request validation and assembly of the character graph.
package parser

import (
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/models"
)

type AnalyzeRequest struct {
	DocumentLength int               `json:"document_length"`
	Mentions       []models.Mention  `json:"mentions"`
	Options        *config.Overrides `json:"options,omitempty"`
}

// Stream yields the request mentions, filling in the request-level document
// length where a mention carries none.
func (r *AnalyzeRequest) Stream() iter.Seq[models.Mention] {
	return func(yield func(models.Mention) bool) {
		for _, m := range r.Mentions {
			if m.DocumentLength == 0 {
				m.DocumentLength = r.DocumentLength
			}
			if !yield(m) {
				return
			}
		}
	}
}

func ParseAnalyzeRequest(data []byte) (*AnalyzeRequest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty request data")
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	if req.DocumentLength < 0 {
		return nil, fmt.Errorf("invalid request: document_length must not be negative")
	}

	if req.Mentions == nil {
		return nil, fmt.Errorf("invalid request: missing mentions field")
	}

	return &req, nil
}

// OverridesFromQuery reads run options from URL query parameters.
func OverridesFromQuery(values url.Values) (*config.Overrides, error) {
	o := &config.Overrides{}

	ints := map[string]**int{
		"top_n":             &o.TopN,
		"max_passes":        &o.MaxLouvainPasses,
		"max_edit_distance": &o.MaxEditDistance,
		"bridges":           &o.BridgeCount,
	}
	for key, target := range ints {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = &v
	}

	if raw := values.Get("resolution"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid resolution: %w", err)
		}
		o.Resolution = &v
	}

	if raw := values.Get("resolver"); raw != "" {
		o.Resolver = &raw
	}

	bools := map[string]**bool{
		"strip_titles": &o.StripTitles,
		"weighted":     &o.Weighted,
	}
	for key, target := range bools {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = &v
	}

	return o, nil
}
