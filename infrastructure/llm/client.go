// Package llm provides the provider clients behind the translation engines.
// It abstracts the OpenAI-compatible and Anthropic-compatible chat APIs
// behind a single CoreLLM interface and adds cross-cutting concerns
// (rate limiting, timeouts, retries, metrics, tracing) through a middleware
// chain, so the orchestration layer never touches provider SDKs directly.
//
// Basic usage:
//
//	client, err := llm.NewClient(llm.ProviderOpenAI, llm.ClientConfig{
//	    APIKey: cfg.APIKey,
//	    Model:  "gpt-4o-mini",
//	})
//	response, err := client.Complete(ctx, prompt, nil)
package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider identifies a supported provider family. The set is closed: the
// factory switch below is exhaustive and anything outside it is rejected at
// construction time rather than failing at request time.
type Provider string

const (
	// ProviderOpenAI selects the OpenAI-compatible chat completion API.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic selects the Anthropic-compatible messages API.
	ProviderAnthropic Provider = "anthropic"
)

// CoreLLM is the minimal surface a provider must implement. Middleware wraps
// any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt and returns the response text plus input and
	// output token counts. The opts map carries provider-tunable settings
	// such as temperature, max_tokens, system, and response_format.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Middleware wraps a CoreLLM to add cross-cutting behavior without touching
// provider logic. Middlewares are applied in the order given, the first
// being outermost.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to construct a provider client.
// Credentials arrive per request and are never cached across requests.
type ClientConfig struct {
	// APIKey authenticates requests to the provider. Required.
	APIKey string

	// Model selects the model; empty uses the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string

	// Timeout bounds individual requests. Zero means no client-side timeout.
	Timeout time.Duration

	// Middleware is the chain applied around the provider core.
	Middleware []Middleware
}

// Client wraps a provider core behind the ports.LLMClient surface.
type Client struct {
	core CoreLLM
}

// NewClient constructs a provider client for the given provider family.
// The switch over providers is deliberately exhaustive; an unknown provider
// is a configuration error, never a silent fallback.
func NewClient(provider Provider, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	var (
		core CoreLLM
		err  error
	)
	switch provider {
	case ProviderOpenAI:
		core, err = newOpenAIProvider(config)
	case ProviderAnthropic:
		core, err = newAnthropicProvider(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	// Apply middleware in reverse so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt and returns the generated text, discarding token
// usage for callers that do not track it.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the generated text along with
// input and output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens approximates the token count of text with the common
// four-characters-per-token heuristic.
func (c *Client) EstimateTokens(text string) (int, error) {
	return estimateTokens(text), nil
}

// GetModel returns the model configured on the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// estimateTokens is the shared fallback estimator used when a provider
// response carries no usage data.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}
