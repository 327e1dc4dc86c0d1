package llm

import (
	"fmt"
	"net/url"
	"time"
)

// Valid ranges for common request parameters, shared across providers.
const (
	// MinTemperature is the lowest accepted sampling temperature.
	MinTemperature = 0.0
	// MaxTemperature is the highest accepted sampling temperature.
	MaxTemperature = 2.0
	// DefaultMaxTokens bounds generation length when the caller sets none.
	DefaultMaxTokens = 4096
	// MinTimeout is the shortest accepted client-side request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the longest accepted client-side request timeout.
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the standardized parameter set extracted from the
// per-call options map. Nil pointer fields mean "use the provider default".
type RequestOptions struct {
	MaxTokens   int
	Model       string
	Temperature *float64
	System      string
	// JSONObject requests structured JSON output where the provider
	// supports a response format parameter.
	JSONObject bool
}

// parseRequestOptions extracts and validates request parameters from the
// options map, falling back to defaults for missing or invalid entries.
func parseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens),
		Model:     extractString(opts, "model", defaultModel),
		System:    extractString(opts, "system", ""),
	}

	if temp, ok := extractFloat(opts, "temperature"); ok && temp >= MinTemperature && temp <= MaxTemperature {
		options.Temperature = &temp
	}

	if format, ok := opts["response_format"]; ok {
		if m, isMap := format.(map[string]string); isMap && m["type"] == "json_object" {
			options.JSONObject = true
		}
	}

	return options
}

func extractInt(opts map[string]any, key string, defaultVal int) int {
	if v, ok := opts[key].(int); ok && v > 0 {
		return v
	}
	return defaultVal
}

func extractString(opts map[string]any, key, defaultVal string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return defaultVal
}

func extractFloat(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// clampFloat64 restricts val to the [min, max] range.
func clampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ValidateBaseURL validates and normalizes a base URL override. An empty
// string is valid and means the provider default endpoint.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout to the accepted range. Zero or negative
// means no client-side timeout.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}
