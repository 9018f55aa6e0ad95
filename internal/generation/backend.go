// Package generation provides the text generation backend via langchaingo.
//
// Each domain answer and the cross-domain fusion are single chat completions
// against an OpenAI-compatible endpoint (OpenAI, Groq, or a local server).
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrGenerationUnavailable indicates the generation backend failed or
	// returned an empty result.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Backend produces text from instructions plus a prompt.
type Backend interface {
	// Generate runs one completion. instructions carries the expert persona
	// (system role), prompt the query and evidence (user role).
	Generate(ctx context.Context, instructions, prompt string) (string, error)
}

// Config holds configuration for the OpenAI-compatible backend.
type Config struct {
	// BaseURL is the chat completions endpoint.
	// For Groq: https://api.groq.com/openai/v1
	BaseURL string

	// Model is the chat model name.
	Model string

	// APIKey authenticates against the endpoint.
	APIKey string

	// Temperature controls sampling. Low values keep expert answers grounded.
	Temperature float64
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// OpenAIBackend implements Backend against any OpenAI-compatible chat API.
type OpenAIBackend struct {
	llm    *openai.LLM
	config Config
}

// NewOpenAIBackend creates a backend with the given configuration.
func NewOpenAIBackend(config Config) (*OpenAIBackend, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithModel(config.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &OpenAIBackend{llm: llm, config: config}, nil
}

// Generate runs one chat completion.
func (b *OpenAIBackend) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	messages := make([]llms.MessageContent, 0, 2)
	if instructions != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, instructions))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := b.llm.GenerateContent(ctx, messages, llms.WithTemperature(b.config.Temperature))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		// Rate-limited backends may return degraded empty results.
		return "", fmt.Errorf("%w: empty completion", ErrGenerationUnavailable)
	}
	return text, nil
}
