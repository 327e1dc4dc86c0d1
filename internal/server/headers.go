package server

import (
	"net/http"

	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/engine"
)

// Engine configuration travels in headers rather than the body so that the
// translation payload stays credential-free in logs and caches.
const (
	headerEngineConfig      = "X-Engine-Config"
	headerEngineConfigs     = "X-Engine-Configs"
	headerJudgeEngineConfig = "X-Judge-Engine-Config"
)

// engineConfigFromHeader extracts the single-engine config used by easy and
// spec mode.
func engineConfigFromHeader(r *http.Request) (engine.Config, error) {
	raw := r.Header.Get(headerEngineConfig)
	if raw == "" {
		return engine.Config{}, domain.BadRequest(domain.CodeMissingEngineConfig,
			"missing request header "+headerEngineConfig, nil)
	}
	return engine.ParseConfig(raw)
}

// engineConfigsFromHeader extracts the ordered engine config list used by
// vibe mode.
func engineConfigsFromHeader(r *http.Request) ([]engine.Config, error) {
	raw := r.Header.Get(headerEngineConfigs)
	if raw == "" {
		return nil, domain.BadRequest(domain.CodeMissingEngineConfig,
			"missing request header "+headerEngineConfigs, nil)
	}
	return engine.ParseConfigs(raw)
}

// judgeConfigFromHeader extracts the optional judge override. Absent header
// means the service picks its default judge.
func judgeConfigFromHeader(r *http.Request) (*engine.Config, error) {
	raw := r.Header.Get(headerJudgeEngineConfig)
	if raw == "" {
		return nil, nil
	}
	cfg, err := engine.ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
