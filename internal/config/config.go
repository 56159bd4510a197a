// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ashureev/ikigai/internal/llm"
)

// Config holds the summary server configuration.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	FrontendURL string `envconfig:"FRONTEND_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	LLM LLMConfig

	GenerateTimeout     time.Duration `envconfig:"GENERATE_TIMEOUT" default:"2m"`
	MaxRequestBodyBytes int64         `envconfig:"MAX_REQUEST_BODY_BYTES" default:"65536"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	RedisURL          string        `envconfig:"REDIS_URL"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	GRPCHealthAddr     string   `envconfig:"GRPC_HEALTH_ADDR"`
}

// LLMConfig selects and tunes the model provider.
type LLMConfig struct {
	Provider    string  `envconfig:"LLM_PROVIDER" default:"gemini"`
	APIKey      string  `envconfig:"API_KEY"`
	Model       string  `envconfig:"LLM_MODEL"`
	BaseURL     string  `envconfig:"LLM_BASE_URL"`
	Temperature float32 `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	TopP        float32 `envconfig:"LLM_TOP_P" default:"1"`
	TopK        float32 `envconfig:"LLM_TOP_K" default:"32"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.LLM.Provider == llm.ProviderGemini && cfg.LLM.Model == "" {
		cfg.LLM.Model = llm.DefaultGeminiModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.LLM.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("API_KEY is required for provider %s", c.LLM.Provider)
		}
		if c.LLM.Provider == llm.ProviderOpenAI && c.LLM.Model == "" {
			return fmt.Errorf("LLM_MODEL is required for provider %s", c.LLM.Provider)
		}
	case llm.ProviderMock:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of gemini, openai, mock")
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be > 0")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_BYTES must be > 0")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// LLMSettings converts the provider section for the llm factory.
func (c *Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
		Params: llm.Params{
			Temperature: c.LLM.Temperature,
			TopP:        c.LLM.TopP,
			TopK:        c.LLM.TopK,
		},
	}
}

// ParseLevel maps LOG_LEVEL values to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
