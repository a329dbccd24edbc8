package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Supported LLM providers.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config holds runtime configuration. Everything comes from the environment
// (optionally seeded from a local .env file); secrets are never compiled in.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// LLM
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"openai" validate:"oneof=openai openrouter gemini"`
	OpenAIKey         string        `env:"OPENAI_API_KEY"`
	OpenRouterKey     string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1" validate:"required,url"`
	GeminiKey         string        `env:"GEMINI_API_KEY"`
	GoogleAPIKey      string        `env:"GOOGLE_API_KEY"` // fallback for gemini
	LLMModel          string        `env:"LLM_MODEL"`
	LLMMaxTokens      int           `env:"LLM_MAX_TOKENS" envDefault:"500" validate:"gte=1"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"` // 0 disables the client-side timeout

	// Word budget for extracted text sent to the model; 0 sends everything.
	MaxInputTokens int `env:"MAX_INPUT_TOKENS" envDefault:"0" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables with defaults and
// validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Credential returns the API key belonging to the selected provider, or ""
// when none is configured.
func (c Config) Credential() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIKey
	case ProviderOpenRouter:
		return c.OpenRouterKey
	case ProviderGemini:
		if c.GeminiKey != "" {
			return c.GeminiKey
		}
		return c.GoogleAPIKey
	default:
		return ""
	}
}

// CredentialEnv names the variable an operator should set for the selected provider.
func (c Config) CredentialEnv() string {
	switch c.LLMProvider {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// Model returns LLM_MODEL, falling back to a per-provider default.
func (c Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	switch c.LLMProvider {
	case ProviderOpenRouter:
		return "openai/gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "gpt-4o-mini"
	}
}
