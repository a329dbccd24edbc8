package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient calls the Gemini API generateContent endpoint.
type GeminiClient struct {
	model     string
	maxTokens int32
	timeout   time.Duration
	client    *genai.Client
}

// GeminiOptions tunes a GeminiClient; zero values select the defaults.
type GeminiOptions struct {
	BaseURL    string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewGeminiClient builds a client for the Gemini API (not Vertex AI).
func NewGeminiClient(ctx context.Context, apiKey, model string, opts GeminiOptions) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{
		model:     model,
		maxTokens: int32(opts.MaxTokens),
		timeout:   opts.Timeout,
		client:    cli,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, text, instruction string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil gemini client")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(UserMessage(instruction, text)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
			MaxOutputTokens:   c.maxTokens,
		})
	if err != nil {
		return "", classifyGeminiError(err)
	}
	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return reply, nil
}

func classifyGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		return fmt.Errorf("gemini: %w: %v", ErrNetwork, err)
	}
	// The Gemini API reports an invalid key as 400 INVALID_ARGUMENT.
	if code == http.StatusUnauthorized || code == http.StatusForbidden ||
		(code == http.StatusBadRequest && strings.Contains(err.Error(), "API key")) {
		return fmt.Errorf("gemini: %w (status %d)", ErrAuthentication, code)
	}
	return fmt.Errorf("gemini: %w: %v", ErrNetwork, err)
}
