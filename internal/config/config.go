// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/merge"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pipeline PipelineConfig
}

// DatabaseConfig holds optional Postgres persistence settings. An empty
// URL disables persistence entirely.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PipelineConfig holds dataset loading and reconciliation settings
type PipelineConfig struct {
	DataDir                string
	SpeedGlob              string
	EnforcementGlob        string
	Bucket                 core.BucketWidth
	SpeedAgg               merge.SpeedAggregation
	SpeedDateColumns       []string
	EnforcementDateColumns []string
	LoaderParallelism      int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Pipeline: *pipeline,
	}, nil
}

func loadPipelineConfig() (*PipelineConfig, error) {
	bucket, err := parseBucket(os.Getenv("ACE_BUCKET"))
	if err != nil {
		return nil, err
	}

	agg, err := merge.ParseSpeedAggregation(os.Getenv("ACE_SPEED_AGG"))
	if err != nil {
		return nil, err
	}

	parallelism := getEnvIntOrDefault("ACE_LOADER_PARALLELISM", 4)
	if parallelism < 1 {
		return nil, core.NewValidationError("ACE_LOADER_PARALLELISM", "must be at least 1")
	}

	return &PipelineConfig{
		DataDir:                getEnvOrDefault("ACE_DATA_DIR", "."),
		SpeedGlob:              os.Getenv("ACE_SPEED_GLOB"),
		EnforcementGlob:        os.Getenv("ACE_ENFORCEMENT_GLOB"),
		Bucket:                 bucket,
		SpeedAgg:               agg,
		SpeedDateColumns:       splitList(os.Getenv("ACE_SPEED_DATE_COLUMNS")),
		EnforcementDateColumns: splitList(os.Getenv("ACE_ENFORCEMENT_DATE_COLUMNS")),
		LoaderParallelism:      parallelism,
	}, nil
}

// parseBucket accepts Go duration syntax. Empty means the default day
// bucket; widths under a minute are rejected since no source reports at
// that resolution.
func parseBucket(s string) (core.BucketWidth, error) {
	if s == "" {
		return core.BucketDay, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidBucket, s)
	}
	if d < time.Minute {
		return 0, fmt.Errorf("%w: %q is below one minute", core.ErrInvalidBucket, s)
	}
	return core.BucketWidth(d), nil
}

// splitList parses a comma-separated env value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
