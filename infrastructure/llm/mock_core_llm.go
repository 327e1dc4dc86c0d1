package llm

import (
	"context"
	"sync"
	"time"
)

// MockCoreLLM is a configurable CoreLLM for testing middleware and callers.
// It records every call and can be tuned to fail, delay, or recover.
type MockCoreLLM struct {
	mu sync.Mutex

	Response      string
	TokensIn      int
	TokensOut     int
	Err           error
	Model         string
	ResponseDelay time.Duration

	// FailUntilAttempt makes the first N calls fail with Err, then succeed.
	FailUntilAttempt int

	CallCount  int
	LastPrompt string
	LastOpts   map[string]any
}

// NewMockCoreLLM returns a mock with default successful behavior.
func NewMockCoreLLM() *MockCoreLLM {
	return &MockCoreLLM{
		Response:  "test response",
		TokensIn:  10,
		TokensOut: 20,
		Model:     "test-model",
	}
}

// DoRequest implements CoreLLM with the configured behavior.
func (m *MockCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	m.mu.Lock()
	m.CallCount++
	call := m.CallCount
	m.LastPrompt = prompt
	m.LastOpts = opts
	delay := m.ResponseDelay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		case <-time.After(delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil && (m.FailUntilAttempt == 0 || call <= m.FailUntilAttempt) {
		return "", 0, 0, m.Err
	}
	return m.Response, m.TokensIn, m.TokensOut, nil
}

// GetModel returns the configured mock model name.
func (m *MockCoreLLM) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Model
}

// Calls returns how many times DoRequest was invoked.
func (m *MockCoreLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
