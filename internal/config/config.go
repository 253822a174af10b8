package config

import (
	"os"
	"strconv"
	"time"

	"visareq/internal/errors"
)

// Mode selects how the pipeline stages are implemented.
type Mode string

const (
	// ModeLive calls the configured LLM provider for every stage.
	ModeLive Mode = "live"
	// ModeCanned produces deterministic demo output with no provider calls.
	ModeCanned Mode = "canned"
)

// Config represents the complete application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Database DatabaseConfig
	Server   ServerConfig
	Export   ExportConfig
}

// LLMConfig holds provider settings for the live pipeline mode
type LLMConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
	MaxConcurrent int
	CacheSize     int
}

// PipelineConfig holds stage orchestration settings
type PipelineConfig struct {
	Mode Mode
	// ScoreClampDisabled turns off the 75.0 presentation floor on the
	// validation score.
	ScoreClampDisabled bool
}

// DatabaseConfig holds run persistence settings. An empty URL selects the
// in-memory repository.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			APIKey:        os.Getenv("OPENAI_API_KEY"),
			BaseURL:       getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:         getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:     getEnvIntOrDefault("LLM_MAX_TOKENS", 4000),
			Temperature:   getEnvFloatOrDefault("LLM_TEMPERATURE", 0.2),
			Timeout:       time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
			MaxConcurrent: getEnvIntOrDefault("LLM_MAX_CONCURRENT", 4),
			CacheSize:     getEnvIntOrDefault("LLM_CACHE_SIZE", 256),
		},
		Pipeline: PipelineConfig{
			Mode:               Mode(getEnvOrDefault("PIPELINE_MODE", "")),
			ScoreClampDisabled: getEnvBoolOrDefault("SCORE_CLAMP_DISABLED", false),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Export: ExportConfig{
			Dir: getEnvOrDefault("EXPORT_DIR", "./exports"),
		},
	}

	// No explicit mode: run live when a key is configured, canned otherwise.
	if cfg.Pipeline.Mode == "" {
		if cfg.LLM.APIKey != "" {
			cfg.Pipeline.Mode = ModeLive
		} else {
			cfg.Pipeline.Mode = ModeCanned
		}
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Pipeline.Mode {
	case ModeLive:
		if cfg.LLM.APIKey == "" {
			return errors.ConfigInvalid("OPENAI_API_KEY is required in live mode")
		}
	case ModeCanned:
	default:
		return errors.ConfigInvalid("PIPELINE_MODE must be \"live\" or \"canned\"")
	}
	if cfg.LLM.MaxConcurrent < 1 {
		return errors.ConfigInvalid("LLM_MAX_CONCURRENT must be at least 1")
	}
	if cfg.LLM.CacheSize < 1 {
		return errors.ConfigInvalid("LLM_CACHE_SIZE must be at least 1")
	}
	return nil
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
