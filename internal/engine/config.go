// Package engine turns caller-supplied engine configurations into
// runnable translation engines.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arlo-hs/lingopipe/internal/domain"
)

// Channel identifies the provider protocol an engine speaks.
type Channel string

const (
	// ChannelOpenAI covers any OpenAI-compatible chat completions endpoint.
	ChannelOpenAI Channel = "openai"
	// ChannelAnthropic covers the Anthropic Messages API.
	ChannelAnthropic Channel = "anthropic"
)

// Config is one engine configuration as supplied by the caller in a
// request header. Field names are camelCase on the wire, matching the
// client contract rather than the JSON body convention.
type Config struct {
	APIKey  string  `json:"apiKey"  validate:"required"`
	BaseURL string  `json:"baseUrl" validate:"omitempty,url"`
	Channel Channel `json:"channel" validate:"required,oneof=openai anthropic"`
	Model   string  `json:"model"   validate:"omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseConfig decodes and validates a single engine configuration from
// raw header JSON. Errors carry API error codes suitable for direct
// translation into the response envelope.
func ParseConfig(raw string) (Config, error) {
	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return Config{}, domain.BadRequest(domain.CodeInvalidEngineConfig,
			fmt.Sprintf("engine config is not valid JSON: %v", err), nil)
	}
	if err := checkConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfigs decodes and validates a JSON array of engine
// configurations. An empty array is a valid result; the caller decides
// whether zero configs is acceptable for its mode.
func ParseConfigs(raw string) ([]Config, error) {
	var cfgs []Config
	if err := decode(raw, &cfgs); err != nil {
		return nil, domain.BadRequest(domain.CodeInvalidEngineConfigs,
			fmt.Sprintf("engine configs are not a valid JSON array: %v", err), nil)
	}
	for i, cfg := range cfgs {
		if err := checkConfig(cfg); err != nil {
			if apiErr, ok := domain.AsAPIError(err); ok {
				return nil, domain.BadRequest(apiErr.Code,
					fmt.Sprintf("engine config %d: %s", i, apiErr.Message), apiErr.Details)
			}
			return nil, err
		}
	}
	return cfgs, nil
}

func decode(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func checkConfig(cfg Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return domain.BadRequest(domain.CodeMissingAPIKey, "engine config is missing apiKey", nil)
	}
	switch cfg.Channel {
	case ChannelOpenAI, ChannelAnthropic:
	default:
		return domain.BadRequest(domain.CodeUnsupportedChannel,
			fmt.Sprintf("unsupported channel %q: must be one of openai, anthropic", cfg.Channel), nil)
	}
	if err := validate.Struct(cfg); err != nil {
		return domain.BadRequest(domain.CodeInvalidEngineConfig, validationMessage(err), nil)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %q failed validation rule %q", fe.Field(), fe.Tag())
	}
	return err.Error()
}

// Redacted returns a copy of the config safe for logging: the API key is
// reduced to its last four characters.
func (c Config) Redacted() Config {
	out := c
	if n := len(c.APIKey); n > 4 {
		out.APIKey = "…" + c.APIKey[n-4:]
	} else if n > 0 {
		out.APIKey = "…"
	}
	return out
}
