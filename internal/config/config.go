// Package config loads server settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds everything the server needs at startup. Engine credentials
// are deliberately absent: they arrive per request and are never part of
// server configuration.
type Settings struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	CORSOrigins []string `mapstructure:"cors_origins"`
	APIPrefix   string   `mapstructure:"api_prefix"`

	// RequestTimeout bounds each provider attempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// ShutdownTimeout bounds graceful drain on termination.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay"`

	// RateLimit is the per-channel provider request rate in requests per
	// second. Zero disables rate limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Load reads settings from LINGOPIPE_* environment variables and, when path
// is non-empty, a YAML config file. Environment values win over the file.
func Load(path string) (Settings, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("debug", false)
	v.SetDefault("cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("api_prefix", "/api")
	v.SetDefault("request_timeout", 120*time.Second)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("max_retries", 2)
	v.SetDefault("retry_base_delay", 500*time.Millisecond)
	v.SetDefault("retry_max_delay", 8*time.Second)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("rate_burst", 1)

	v.SetEnvPrefix("LINGOPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return Settings{}, fmt.Errorf("invalid port %d", s.Port)
	}
	return s, nil
}

// Addr returns the listen address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
