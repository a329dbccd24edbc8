package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"doc-reader/internal/config"
	"doc-reader/internal/extract"
	"doc-reader/internal/llm"
	"doc-reader/internal/logger"
)

// Deps bundles the runtime dependencies of a session.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Extractor extract.Extractor
	NewLLM    llm.Factory
}

// Build loads .env (if present), config, and shared components. The LLM
// client itself is created later, once the session has checked the credential.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	newLLM, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return Deps{
		Config:    cfg,
		Log:       log,
		Extractor: extract.NewFileExtractor(log),
		NewLLM:    newLLM,
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Factory, error) {
	model := cfg.Model()
	switch cfg.LLMProvider {
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		opts := llm.OpenAIOptions{MaxTokens: cfg.LLMMaxTokens, Timeout: cfg.LLMTimeout}
		if cfg.LLMProvider == config.ProviderOpenRouter {
			opts.BaseURL = cfg.OpenRouterBaseURL
		}
		return func(_ context.Context, apiKey string) (llm.Client, error) {
			client, err := llm.NewOpenAIClient(apiKey, openai.ChatModel(model), opts)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
			}
			log.Info("using OpenAI-compatible LLM client", "provider", cfg.LLMProvider, "model", model)
			return client, nil
		}, nil
	case config.ProviderGemini:
		opts := llm.GeminiOptions{MaxTokens: cfg.LLMMaxTokens, Timeout: cfg.LLMTimeout}
		return func(ctx context.Context, apiKey string) (llm.Client, error) {
			client, err := llm.NewGeminiClient(ctx, apiKey, model, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
			}
			log.Info("using Gemini LLM client", "model", model)
			return client, nil
		}, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: openai, openrouter, gemini)", cfg.LLMProvider)
	}
}
