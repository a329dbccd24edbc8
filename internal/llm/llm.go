package llm

import (
	"context"
	"errors"
)

// SystemPrompt frames every request, regardless of provider.
const SystemPrompt = "You are a helpful assistant."

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrNetwork        = errors.New("request failed")
	ErrEmptyResponse  = errors.New("empty response")
)

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Complete applies instruction to text and returns the trimmed reply.
	Complete(ctx context.Context, text, instruction string) (string, error)
}

// Factory builds a Client once the credential is known.
type Factory func(ctx context.Context, apiKey string) (Client, error)

// UserMessage formats the single user turn sent to the model.
func UserMessage(instruction, text string) string {
	return instruction + ":\n" + text
}
