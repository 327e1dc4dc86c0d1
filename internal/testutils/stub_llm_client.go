package testutils

import (
	"context"
	"sync"

	"github.com/arlo-hs/lingopipe/internal/ports"
)

// StubLLMClient is a deterministic LLMClient for judge-call tests. It
// records the last prompt and options it saw.
type StubLLMClient struct {
	Response string
	Err      error
	Model    string

	mu          sync.Mutex
	calls       int
	lastPrompt  string
	lastOptions map[string]any
}

var _ ports.LLMClient = (*StubLLMClient)(nil)

// Complete returns the canned response or error.
func (c *StubLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	c.mu.Lock()
	c.calls++
	c.lastPrompt = prompt
	c.lastOptions = options
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}

// EstimateTokens uses the four-characters-per-token heuristic.
func (c *StubLLMClient) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the configured model name.
func (c *StubLLMClient) GetModel() string {
	if c.Model == "" {
		return "stub-model"
	}
	return c.Model
}

// Calls reports how many Complete calls were made.
func (c *StubLLMClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// LastPrompt returns the prompt from the most recent Complete call.
func (c *StubLLMClient) LastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPrompt
}

// LastOptions returns the options map from the most recent Complete call.
func (c *StubLLMClient) LastOptions() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOptions
}
