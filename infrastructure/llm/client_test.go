package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("empty api key is rejected", func(t *testing.T) {
		_, err := NewClient(ProviderOpenAI, ClientConfig{})
		assert.ErrorIs(t, err, ErrEmptyAPIKey)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		_, err := NewClient(Provider("bard"), ClientConfig{APIKey: "sk-test"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("openai provider constructs", func(t *testing.T) {
		client, err := NewClient(ProviderOpenAI, ClientConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, OpenAIDefaultModel, client.GetModel())
	})

	t.Run("anthropic provider constructs", func(t *testing.T) {
		client, err := NewClient(ProviderAnthropic, ClientConfig{APIKey: "sk-ant", Model: "claude-3-haiku"})
		require.NoError(t, err)
		assert.Equal(t, "claude-3-haiku", client.GetModel())
	})

	t.Run("invalid base url is rejected", func(t *testing.T) {
		_, err := NewClient(ProviderOpenAI, ClientConfig{APIKey: "sk-test", BaseURL: "ftp://example.com"})
		assert.Error(t, err)
	})
}

// taggingMiddleware appends its tag to the prompt so ordering is observable.
func taggingMiddleware(tag string) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &taggingLLM{next: next, tag: tag}
	}
}

type taggingLLM struct {
	next CoreLLM
	tag  string
}

func (t *taggingLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	return t.next.DoRequest(ctx, prompt+" "+t.tag, opts)
}

func (t *taggingLLM) GetModel() string { return t.next.GetModel() }

func TestMiddlewareOrdering(t *testing.T) {
	mock := NewMockCoreLLM()

	core := CoreLLM(mock)
	chain := []Middleware{taggingMiddleware("outer"), taggingMiddleware("inner")}
	for i := len(chain) - 1; i >= 0; i-- {
		core = chain[i](core)
	}

	_, _, _, err := core.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)

	// The first middleware in the chain runs first.
	assert.Equal(t, "prompt outer inner", mock.LastPrompt)
}

func TestClientComplete(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Response = "bonjour"
	client := &Client{core: mock}

	t.Run("complete returns text", func(t *testing.T) {
		got, err := client.Complete(context.Background(), "hello", map[string]any{"system": "translate"})
		require.NoError(t, err)
		assert.Equal(t, "bonjour", got)
		assert.Equal(t, "translate", mock.LastOpts["system"])
	})

	t.Run("complete with usage returns token counts", func(t *testing.T) {
		got, in, out, err := client.CompleteWithUsage(context.Background(), "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "bonjour", got)
		assert.Equal(t, 10, in)
		assert.Equal(t, 20, out)
	})

	t.Run("errors pass through", func(t *testing.T) {
		mock.Err = errors.New("boom")
		_, err := client.Complete(context.Background(), "hello", nil)
		assert.Error(t, err)
		mock.Err = nil
	})
}

func TestEstimateTokens(t *testing.T) {
	client := &Client{core: NewMockCoreLLM()}

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"The quick brown fox jumps over the lazy dog", 11},
	}
	for _, tt := range tests {
		got, err := client.EstimateTokens(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}
