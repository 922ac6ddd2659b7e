// Package config holds per-run analysis options and service settings.
package config

import (
	"fmt"
	"strings"

	"github.com/charnet/core/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CHARNET"

type Settings struct {
	Addr         string  `mapstructure:"addr"`
	Debug        bool    `mapstructure:"debug"`
	CORSOrigin   string  `mapstructure:"cors_origin"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	Analysis     Options `mapstructure:"analysis"`
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

// Load layers defaults, an optional config file and CHARNET_ environment
// variables (CHARNET_ANALYSIS_TOP_N overrides analysis.top_n).
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := settings.Analysis.Validate(); err != nil {
		return nil, err
	}
	if settings.MaxBodyBytes <= 0 {
		return nil, &ConfigurationError{Field: "max_body_bytes", Reason: "must be > 0"}
	}

	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultOptions()

	v.SetDefault("addr", ":8080")
	v.SetDefault("debug", false)
	v.SetDefault("cors_origin", "*")
	v.SetDefault("max_body_bytes", int64(64<<20))

	v.SetDefault("analysis.top_n", d.TopN)
	v.SetDefault("analysis.max_louvain_passes", d.MaxLouvainPasses)
	v.SetDefault("analysis.resolution", d.Resolution)
	v.SetDefault("analysis.resolver", d.Resolver)
	v.SetDefault("analysis.max_edit_distance", d.MaxEditDistance)
	v.SetDefault("analysis.aliases", map[string]string{})
	v.SetDefault("analysis.strip_titles", d.StripTitles)
	v.SetDefault("analysis.person_categories", d.PersonCategories)
	v.SetDefault("analysis.min_name_length", d.MinNameLength)
	v.SetDefault("analysis.max_name_words", d.MaxNameWords)
	v.SetDefault("analysis.weighted", d.Weighted)
	v.SetDefault("analysis.bridge_count", d.BridgeCount)
}
