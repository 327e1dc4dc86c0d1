package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlo-hs/lingopipe/internal/config"
	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/easy"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/ports"
	"github.com/arlo-hs/lingopipe/internal/specmode"
	"github.com/arlo-hs/lingopipe/internal/testutils"
	"github.com/arlo-hs/lingopipe/internal/vibe"
)

const judgeVerdict = `{
	"scores": [
		{"engine_id": "gpt", "accuracy": 8, "fluency": 8, "style_match": 8, "terminology": 8, "comment": "good"},
		{"engine_id": "claude", "accuracy": 7, "fluency": 7, "style_match": 7, "terminology": 7, "comment": "fine"}
	],
	"final": {"translation": "synthesized text", "comment": "c", "rationale": "r", "overall": 8}
}`

func testServer(t *testing.T, builder *testutils.StubBuilder) *Server {
	t.Helper()

	registry, err := engine.NewRegistry()
	require.NoError(t, err)

	settings := config.Settings{
		APIPrefix:       "/api",
		CORSOrigins:     []string{"http://localhost:5173"},
		ShutdownTimeout: time.Second,
	}

	return New(settings, nil,
		easy.NewService(builder, nil),
		vibe.NewService(builder, nil),
		specmode.NewService(builder, nil),
		registry,
	)
}

func defaultBuilder() *testutils.StubBuilder {
	return &testutils.StubBuilder{
		Engines: map[string]ports.TranslationEngine{
			"gpt-4o":  &testutils.StubEngine{EngineName: "gpt-4o", Translation: "Bonjour le monde"},
			"claude3": &testutils.StubEngine{EngineName: "claude3", Translation: "Salut le monde"},
		},
		DefaultEngine: &testutils.StubEngine{EngineName: "default", Translation: "Bonjour"},
		JudgeClient:   &testutils.StubLLMClient{Response: judgeVerdict},
	}
}

func decodeErrorEnvelope(t *testing.T, body string) *domain.APIError {
	t.Helper()
	var env struct {
		Error *domain.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NotNil(t, env.Error)
	return env.Error
}

const validEngineConfig = `{"apiKey": "sk-test", "channel": "openai", "model": "gpt-4o"}`

func TestHandleEasy(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	t.Run("happy path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/easy",
			strings.NewReader(`{"text": "Hello world", "source_lang": "en", "target_lang": "fr"}`))
		req.Header.Set(headerEngineConfig, validEngineConfig)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp domain.EasyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Bonjour le monde", resp.TranslatedText)
		assert.Equal(t, "fr", resp.TargetLang)
		assert.Equal(t, "custom", resp.Engine)
	})

	t.Run("missing engine config header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/easy",
			strings.NewReader(`{"text": "hi", "target_lang": "fr"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		apiErr := decodeErrorEnvelope(t, rec.Body.String())
		assert.Equal(t, domain.CodeMissingEngineConfig, apiErr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/easy", strings.NewReader(`{`))
		req.Header.Set(headerEngineConfig, validEngineConfig)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.CodeInvalidJSON, decodeErrorEnvelope(t, rec.Body.String()).Code)
	})

	t.Run("missing required field is 422", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/easy",
			strings.NewReader(`{"text": "hi"}`))
		req.Header.Set(headerEngineConfig, validEngineConfig)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, domain.CodeValidationError, decodeErrorEnvelope(t, rec.Body.String()).Code)
	})

	t.Run("upstream failure is 502", func(t *testing.T) {
		builder := &testutils.StubBuilder{
			DefaultEngine: &testutils.StubEngine{EngineName: "x", Err: errors.New("provider gone")},
		}
		h := testServer(t, builder).Handler()

		req := httptest.NewRequest(http.MethodPost, "/api/translate/easy",
			strings.NewReader(`{"text": "hi", "target_lang": "fr"}`))
		req.Header.Set(headerEngineConfig, validEngineConfig)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, domain.CodeUpstreamFailed, decodeErrorEnvelope(t, rec.Body.String()).Code)
	})
}

func TestHandleVibe(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	configs := `[
		{"apiKey": "sk-1", "channel": "openai", "model": "gpt-4o"},
		{"apiKey": "sk-2", "channel": "anthropic", "model": "claude3"}
	]`
	body := `{"text": "Hello world", "source_lang": "en", "target_lang": "fr",
		"intent": "casual", "engines": ["gpt", "claude"]}`

	t.Run("happy path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/vibe", strings.NewReader(body))
		req.Header.Set(headerEngineConfigs, configs)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp domain.VibeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "gpt", resp.Results[0].EngineID)
		require.NotNil(t, resp.BestResult)
		assert.Equal(t, "judge", resp.BestResult.EngineID)
		assert.Equal(t, "synthesized text", resp.SynthesizedTranslation)
	})

	t.Run("missing configs header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/vibe", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad judge header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/translate/vibe", strings.NewReader(body))
		req.Header.Set(headerEngineConfigs, configs)
		req.Header.Set(headerJudgeEngineConfig, `{"channel": "openai"}`)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.CodeMissingAPIKey, decodeErrorEnvelope(t, rec.Body.String()).Code)
	})
}

func TestHandleVibeStream_SSEFraming(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/translate/vibe/stream",
		strings.NewReader(`{"text": "Hello", "target_lang": "fr", "intent": "casual", "engines": ["gpt", "claude"]}`))
	req.Header.Set(headerEngineConfigs, `[
		{"apiKey": "sk-1", "channel": "openai", "model": "gpt-4o"},
		{"apiKey": "sk-2", "channel": "anthropic", "model": "claude3"}
	]`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	// Collect the event names in order.
	var events []string
	scanner := bufio.NewScanner(rec.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
			continue
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			require.True(t, json.Valid([]byte(data)), "every data line is a JSON document: %s", data)
		}
	}

	require.Len(t, events, 4)
	assert.Equal(t, []string{"partial", "partial", "final", "done"}, events)
}

func TestHandleSpec(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	body := `{
		"text": "Hello world",
		"target_lang": "zh",
		"blueprint": {
			"theory": {"primary": "functionalism", "configs": [{"id": "functionalism", "purpose": "docs"}]},
			"method": {"preference": "literal", "weight": 0.7},
			"strategy": {"approach": "domestication", "weight": 0.6}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/translate/spec", strings.NewReader(body))
	req.Header.Set(headerEngineConfig, validEngineConfig)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp domain.SpecResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bonjour le monde", resp.TranslatedText)
	require.Len(t, resp.Decisions, 3)
	assert.Equal(t, "theory framework", resp.Decisions[0].Aspect)
	assert.Equal(t, "literal translation", resp.Decisions[1].Decision)
}

func TestEngineEndpoints(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/engines", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Engines []engine.Info `json:"engines"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Engines, 2)
	})

	t.Run("get known", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/engines/anthropic", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var info engine.Info
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "Anthropic Claude", info.Name)
	})

	t.Run("get unknown is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/engines/deepl", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, domain.CodeNotFound, decodeErrorEnvelope(t, rec.Body.String()).Code)
	})
}

func TestHealthAndCORS(t *testing.T) {
	handler := testServer(t, defaultBuilder()).Handler()

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/translate/vibe", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), headerEngineConfigs)
	})

	t.Run("disallowed origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
