// Package config holds per-run analysis options and service settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ResolverExact        = "exact"
	ResolverEditDistance = "edit-distance"
	ResolverAlias        = "alias"
)

const (
	DefaultTopN             = 50
	DefaultMaxLouvainPasses = 10
	DefaultResolution       = 1.0
	DefaultMinNameLength    = 2
	DefaultMaxNameWords     = 3
	DefaultBridgeCount      = 10
)

var validate = validator.New()

// Options is the configuration surface accepted at the start of a run.
type Options struct {
	TopN             int               `mapstructure:"top_n" json:"top_n" validate:"gte=0"`
	MaxLouvainPasses int               `mapstructure:"max_louvain_passes" json:"max_louvain_passes" validate:"gte=1"`
	Resolution       float64           `mapstructure:"resolution" json:"resolution" validate:"gt=0"`
	Resolver         string            `mapstructure:"resolver" json:"resolver" validate:"oneof=exact edit-distance alias"`
	MaxEditDistance  int               `mapstructure:"max_edit_distance" json:"max_edit_distance" validate:"gte=0,lte=3"`
	Aliases          map[string]string `mapstructure:"aliases" json:"aliases,omitempty"`
	StripTitles      bool              `mapstructure:"strip_titles" json:"strip_titles"`
	PersonCategories []string          `mapstructure:"person_categories" json:"person_categories" validate:"min=1,dive,required"`
	MinNameLength    int               `mapstructure:"min_name_length" json:"min_name_length" validate:"gte=1"`
	// MaxNameWords of 0 disables the word-count filter.
	MaxNameWords int  `mapstructure:"max_name_words" json:"max_name_words" validate:"gte=0"`
	Weighted     bool `mapstructure:"weighted" json:"weighted"`
	BridgeCount  int  `mapstructure:"bridge_count" json:"bridge_count" validate:"gte=0"`
}

func DefaultOptions() Options {
	return Options{
		TopN:             DefaultTopN,
		MaxLouvainPasses: DefaultMaxLouvainPasses,
		Resolution:       DefaultResolution,
		Resolver:         ResolverExact,
		MaxEditDistance:  1,
		PersonCategories: []string{"person", "PER"},
		MinNameLength:    DefaultMinNameLength,
		MaxNameWords:     DefaultMaxNameWords,
		BridgeCount:      DefaultBridgeCount,
	}
}

// ConfigurationError reports an option that prevents a run from starting.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		if o.Resolver == ResolverAlias && len(o.Aliases) == 0 {
			return &ConfigurationError{Field: "aliases", Reason: "must not be empty for the alias resolver"}
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ConfigurationError{Reason: err.Error(), Err: err}
	}

	fe := fieldErrs[0]
	return &ConfigurationError{
		Field:  snakeCase(fe.Field()),
		Reason: describe(fe),
		Err:    err,
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "required":
		return "must not be empty"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
