package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Port              string
	GeminiAPIKey      string
	GeminiModel       string
	LogLevel          string
	FetchTimeout      time.Duration
	GenerationTimeout time.Duration
	MaxBodyBytes      int64
	AllowPrivateHosts bool
	CORSAllowedOrigin string
}

// Map of config keys to their env var names
var envBindings = map[string]string{
	"port":                "PORT",
	"gemini_api_key":      "GEMINI_API_KEY",
	"gemini_model":        "GEMINI_MODEL",
	"log_level":           "LOG_LEVEL",
	"fetch_timeout":       "FETCH_TIMEOUT",
	"generation_timeout":  "GENERATION_TIMEOUT",
	"max_body_bytes":      "MAX_BODY_BYTES",
	"allow_private_hosts": "ALLOW_PRIVATE_HOSTS",
	"cors_allowed_origin": "CORS_ALLOWED_ORIGIN",
}

// Load reads configuration from environment variables
// Supports _FILE suffix pattern for reading secrets from files (Docker Swarm style)
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("port", "4500")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("log_level", "info")
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("generation_timeout", 60*time.Second)
	v.SetDefault("max_body_bytes", 2*1024*1024)
	v.SetDefault("allow_private_hosts", false)
	v.SetDefault("cors_allowed_origin", "http://localhost:5173")

	v.AutomaticEnv()

	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", envVar, err)
		}
	}

	cfg := &Config{
		Port:              getConfigValue(v, "port"),
		GeminiAPIKey:      getConfigValue(v, "gemini_api_key"),
		GeminiModel:       getConfigValue(v, "gemini_model"),
		LogLevel:          strings.ToLower(getConfigValue(v, "log_level")),
		FetchTimeout:      v.GetDuration("fetch_timeout"),
		GenerationTimeout: v.GetDuration("generation_timeout"),
		MaxBodyBytes:      v.GetInt64("max_body_bytes"),
		AllowPrivateHosts: v.GetBool("allow_private_hosts"),
		CORSAllowedOrigin: getConfigValue(v, "cors_allowed_origin"),
	}

	// Validate required config
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

// getConfigValue checks for FOO_FILE env var first, reads from file if exists,
// otherwise falls back to FOO env var
func getConfigValue(v *viper.Viper, key string) string {
	fileEnvVar := envBindings[key] + "_FILE"
	if filePath := os.Getenv(fileEnvVar); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return strings.TrimSpace(v.GetString(key))
}
