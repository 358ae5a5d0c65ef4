// Package llm wraps the local text-generation model behind a strict budget.
// The Oracle is the only way the pipeline reaches the model: every call
// carries a caller-supplied fallback, counts against a per-run call limit,
// and never propagates a model error upward.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrUnavailable signals that no model is configured or loaded. The oracle
// turns it into permanent fallback-only operation.
var ErrUnavailable = errors.New("text model unavailable")

// Generator is the narrow generation surface the oracle consumes.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64, stop []string) (string, error)
}

// Config locates an OpenAI-compatible completion endpoint (a local llama.cpp
// or Ollama server in the usual deployment).
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	// RequestTimeout bounds a single generation call. There are no retries:
	// with a slow local model, one failed attempt is terminal.
	RequestTimeout time.Duration
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("model base URL required")
	}
	if c.Model == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}

// Client generates text via langchaingo's OpenAI-compatible client.
type Client struct {
	llm     *openai.LLM
	timeout time.Duration
}

// NewClient builds a Client, or ErrUnavailable when the endpoint is not
// configured so callers can fall through to degraded mode.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" && cfg.Model == "" {
		return nil, ErrUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating model config: %w", err)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for local servers.
		apiKey = "placeholder"
	}

	llmClient, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	return &Client{llm: llmClient, timeout: cfg.RequestTimeout}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64, stop []string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(temperature),
	}
	if len(stop) > 0 {
		opts = append(opts, llms.WithStopWords(stop))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("model generation: %w", err)
	}
	return text, nil
}

// Unavailable is the Generator used when no model endpoint is configured.
// Every call fails with ErrUnavailable, which the oracle converts into the
// caller's fallback.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string, int, float64, []string) (string, error) {
	return "", ErrUnavailable
}
