// Package config holds the engine configuration surface: cache TTL, live
// fetch timeout, match tolerance, result limits and upstream endpoints.
// Values come from an optional YAML file with environment overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type EngineConfig struct {
	// CacheTTLSeconds is how long a resolved board stays fresh.
	CacheTTLSeconds int `yaml:"cacheTTLSeconds" validate:"gt=0"`

	// LiveTimeoutSeconds bounds one realtime fetch. The upstream is a
	// government system behind IP whitelisting and is occasionally slow.
	LiveTimeoutSeconds int `yaml:"liveTimeoutSeconds" validate:"gt=0"`

	// MatchToleranceMinutes bounds how far a live prediction may drift from
	// a schedule candidate and still match it.
	MatchToleranceMinutes int `yaml:"matchToleranceMinutes" validate:"gt=0"`

	// WindowMinutes is the schedule lookup window per resolution.
	WindowMinutes int `yaml:"windowMinutes" validate:"gt=0"`

	MaxResults       int `yaml:"maxResults" validate:"gt=0"`
	UpstreamPoolSize int `yaml:"upstreamPoolSize" validate:"gt=0"`
}

type SIRIConfig struct {
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	UserKey  string `yaml:"userKey"`
}

type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL" validate:"omitempty,url"`
}

type AppConfig struct {
	Engine EngineConfig `yaml:"engine"`
	SIRI   SIRIConfig   `yaml:"siri"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
}

func Defaults() AppConfig {
	return AppConfig{
		Engine: EngineConfig{
			CacheTTLSeconds:       25,
			LiveTimeoutSeconds:    5,
			MatchToleranceMinutes: 120,
			WindowMinutes:         60,
			MaxResults:            25,
			UpstreamPoolSize:      3,
		},
	}
}

// Load reads the optional YAML config (NEXTRIDE_CONFIG or ./nextride.yaml),
// applies environment overrides and validates the result.
func Load() (AppConfig, error) {
	cfg := Defaults()

	path := os.Getenv("NEXTRIDE_CONFIG")
	if path == "" {
		path = "nextride.yaml"
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnvOverrides(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Engine); err != nil {
		return cfg, err
	}
	if err := v.Struct(cfg.SIRI); err != nil {
		return cfg, err
	}
	if err := v.Struct(cfg.GTFSRT); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	overrideInt("NEXTRIDE_CACHE_TTL_SECONDS", &cfg.Engine.CacheTTLSeconds)
	overrideInt("NEXTRIDE_LIVE_TIMEOUT_SECONDS", &cfg.Engine.LiveTimeoutSeconds)
	overrideInt("NEXTRIDE_MATCH_TOLERANCE_MINUTES", &cfg.Engine.MatchToleranceMinutes)
	overrideInt("NEXTRIDE_WINDOW_MINUTES", &cfg.Engine.WindowMinutes)
	overrideInt("NEXTRIDE_MAX_RESULTS", &cfg.Engine.MaxResults)
	overrideInt("NEXTRIDE_UPSTREAM_POOL_SIZE", &cfg.Engine.UpstreamPoolSize)

	if value := os.Getenv("NEXTRIDE_SIRI_ENDPOINT"); value != "" {
		cfg.SIRI.Endpoint = value
	}
	if value := os.Getenv("NEXTRIDE_SIRI_USER_KEY"); value != "" {
		cfg.SIRI.UserKey = value
	}
	if value := os.Getenv("NEXTRIDE_GTFSRT_TRIP_UPDATES_URL"); value != "" {
		cfg.GTFSRT.TripUpdatesURL = value
	}
}

func overrideInt(key string, target *int) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		*target = parsed
	}
}

func (e EngineConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

func (e EngineConfig) LiveTimeout() time.Duration {
	return time.Duration(e.LiveTimeoutSeconds) * time.Second
}

func (e EngineConfig) MatchTolerance() time.Duration {
	return time.Duration(e.MatchToleranceMinutes) * time.Minute
}

func (e EngineConfig) Window() time.Duration {
	return time.Duration(e.WindowMinutes) * time.Minute
}
