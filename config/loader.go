package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no config path is given.
var DefaultPaths = []string{"config.yml", "./config/config.yml", "/etc/navcore/config.yml"}

// Environment variables overriding file values.
const (
	EnvOSRMURL      = "NAVCORE_OSRM_URL"
	EnvProfile      = "NAVCORE_PROFILE"
	EnvFeedURL      = "NAVCORE_FEED_URL"
	EnvVehicleID    = "NAVCORE_VEHICLE_ID"
	EnvTelemetryDSN = "NAVCORE_TELEMETRY_DSN"
	EnvLogLevel     = "NAVCORE_LOG_LEVEL"
)

// LoadEnv reads .env files into the process environment. Missing files are
// reported as an error the caller may ignore.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads, overrides, validates and completes the configuration. An empty
// path searches DefaultPaths.
func Load(path string) (*AppConfig, error) {
	paths := DefaultPaths
	if path != "" {
		paths = []string{path}
	}
	var (
		data []byte
		err  error
	)
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies environment overrides.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}
	applyEnv(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("config: invalid %s (%s): %w", verrs[0].Namespace(), verrs[0].Tag(), err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	override(&cfg.Directions.BaseURL, EnvOSRMURL)
	override(&cfg.Directions.Profile, EnvProfile)
	override(&cfg.Feed.VehiclePositionsURL, EnvFeedURL)
	override(&cfg.Feed.VehicleID, EnvVehicleID)
	override(&cfg.Logging.Level, EnvLogLevel)
	if dsn := os.Getenv(EnvTelemetryDSN); dsn != "" {
		cfg.Telemetry.DSN = dsn
		if cfg.Telemetry.Sink == "" {
			cfg.Telemetry.Sink = "postgres"
		}
	}
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Directions.Profile == "" {
		cfg.Directions.Profile = "driving"
	}
	if cfg.Directions.TimeoutMS == 0 {
		cfg.Directions.TimeoutMS = 10000
	}
	if cfg.Telemetry.Sink == "" {
		cfg.Telemetry.Sink = "log"
	}
	if cfg.Telemetry.CollectionWindowMS == 0 {
		cfg.Telemetry.CollectionWindowMS = 20000
	}
	if cfg.Telemetry.HistoryCapacity == 0 {
		cfg.Telemetry.HistoryCapacity = 40
	}
	if cfg.Feed.Accuracy == 0 {
		cfg.Feed.Accuracy = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
