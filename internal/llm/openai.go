package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the OpenAI Chat Completions API, or any endpoint that
// speaks the same protocol (OpenRouter).
type OpenAIClient struct {
	model     openai.ChatModel
	maxTokens int64
	timeout   time.Duration
	client    *openai.Client
}

const defaultMaxTokens = 500

// OpenAIOptions tunes an OpenAIClient; zero values select the defaults.
type OpenAIOptions struct {
	BaseURL    string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewOpenAIClient builds a client with defaults against api.openai.com.
// Requests are never retried.
func NewOpenAIClient(apiKey string, model openai.ChatModel, opts OpenAIOptions) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:     model,
		maxTokens: int64(opts.MaxTokens),
		timeout:   opts.Timeout,
		client:    &cli,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, text, instruction string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		Messages:  buildMessages(SystemPrompt, UserMessage(instruction, text)),
		MaxTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices returned", ErrEmptyResponse)
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("openai: %w: blank message", ErrEmptyResponse)
	}
	return reply, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("openai: %w (status %d)", ErrAuthentication, apiErr.StatusCode)
		}
		return fmt.Errorf("openai: %w: status %d: %s", ErrNetwork, apiErr.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("openai: %w: %v", ErrNetwork, err)
}
