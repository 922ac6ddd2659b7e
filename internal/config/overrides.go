// Package config holds per-run analysis options and service settings.
package config

// Overrides carries the options a caller set explicitly for one run.
type Overrides struct {
	TopN             *int              `json:"top_n,omitempty"`
	MaxLouvainPasses *int              `json:"max_louvain_passes,omitempty"`
	Resolution       *float64          `json:"resolution,omitempty"`
	Resolver         *string           `json:"resolver,omitempty"`
	MaxEditDistance  *int              `json:"max_edit_distance,omitempty"`
	Aliases          map[string]string `json:"aliases,omitempty"`
	StripTitles      *bool             `json:"strip_titles,omitempty"`
	Weighted         *bool             `json:"weighted,omitempty"`
	BridgeCount      *int              `json:"bridge_count,omitempty"`
}

// Apply returns base with every set override copied over it. A nil receiver
// returns base unchanged.
func (o *Overrides) Apply(base Options) Options {
	if o == nil {
		return base
	}

	out := base
	if o.TopN != nil {
		out.TopN = *o.TopN
	}
	if o.MaxLouvainPasses != nil {
		out.MaxLouvainPasses = *o.MaxLouvainPasses
	}
	if o.Resolution != nil {
		out.Resolution = *o.Resolution
	}
	if o.Resolver != nil {
		out.Resolver = *o.Resolver
	}
	if o.MaxEditDistance != nil {
		out.MaxEditDistance = *o.MaxEditDistance
	}
	if len(o.Aliases) > 0 {
		out.Aliases = o.Aliases
	}
	if o.StripTitles != nil {
		out.StripTitles = *o.StripTitles
	}
	if o.Weighted != nil {
		out.Weighted = *o.Weighted
	}
	if o.BridgeCount != nil {
		out.BridgeCount = *o.BridgeCount
	}

	return out
}
