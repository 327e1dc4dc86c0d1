package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatCompletionStub serves a minimal OpenAI-compatible chat completion
// endpoint and records the last request body.
type chatCompletionStub struct {
	status  int
	content string
	last    map[string]any
}

func (s *chatCompletionStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.last = body

		if s.status != 0 && s.status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(s.status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "stub failure", "type": "api_error"},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": s.content}, "finish_reason": "stop"}},
			"usage":   map[string]any{"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12},
		})
	}
}

func newStubProvider(t *testing.T, stub *chatCompletionStub) CoreLLM {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	core, err := newOpenAIProvider(ClientConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return core
}

func TestOpenAIProviderDoRequest(t *testing.T) {
	t.Run("returns content and usage", func(t *testing.T) {
		stub := &chatCompletionStub{content: "Bonjour le monde"}
		core := newStubProvider(t, stub)

		response, tokensIn, tokensOut, err := core.DoRequest(context.Background(), "translate this",
			map[string]any{"system": "you translate", "temperature": 0.3, "max_tokens": 256})

		require.NoError(t, err)
		assert.Equal(t, "Bonjour le monde", response)
		assert.Equal(t, 5, tokensIn)
		assert.Equal(t, 7, tokensOut)

		// System prompt travels as the first message.
		messages, ok := stub.last["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		first := messages[0].(map[string]any)
		assert.Equal(t, "system", first["role"])
		assert.Equal(t, "you translate", first["content"])

		assert.EqualValues(t, 256, stub.last["max_tokens"])
	})

	t.Run("json response format is requested", func(t *testing.T) {
		stub := &chatCompletionStub{content: "{}"}
		core := newStubProvider(t, stub)

		_, _, _, err := core.DoRequest(context.Background(), "judge",
			map[string]any{"response_format": map[string]string{"type": "json_object"}})

		require.NoError(t, err)
		format, ok := stub.last["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])
	})

	t.Run("no system message without option", func(t *testing.T) {
		stub := &chatCompletionStub{content: "ok"}
		core := newStubProvider(t, stub)

		_, _, _, err := core.DoRequest(context.Background(), "hello", nil)
		require.NoError(t, err)

		messages := stub.last["messages"].([]any)
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	})

	t.Run("http errors are classified", func(t *testing.T) {
		tests := []struct {
			status int
			want   ErrorType
		}{
			{http.StatusUnauthorized, ErrorTypeAuthentication},
			{http.StatusTooManyRequests, ErrorTypeRateLimit},
			{http.StatusInternalServerError, ErrorTypeServerError},
		}
		for _, tt := range tests {
			stub := &chatCompletionStub{status: tt.status}
			core := newStubProvider(t, stub)

			_, _, _, err := core.DoRequest(context.Background(), "hello", nil)
			require.Error(t, err, "status %d", tt.status)

			var provErr *ProviderError
			require.True(t, errors.As(err, &provErr), "status %d", tt.status)
			assert.Equal(t, tt.want, provErr.Type, "status %d", tt.status)
			assert.Equal(t, "openai", provErr.Provider)
		}
	})
}

func TestOpenAIProviderDefaults(t *testing.T) {
	core, err := newOpenAIProvider(ClientConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, OpenAIDefaultModel, core.GetModel())

	core, err = newOpenAIProvider(ClientConfig{APIKey: "sk-test", Model: "gpt-4.1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", core.GetModel())
}
