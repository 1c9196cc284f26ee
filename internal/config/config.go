// Package config resolves runtime settings for the pricegen binaries.
// Precedence, lowest first: defaults, YAML file, PRICEGEN_* environment
// variables, command line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAddr                = "PRICEGEN_ADDR"
	EnvAPIURL              = "PRICEGEN_API_URL"
	EnvLogLevel            = "PRICEGEN_LOG_LEVEL"
	EnvHTTPTimeout         = "PRICEGEN_HTTP_TIMEOUT"
	EnvSequencePredictions = "PRICEGEN_SEQUENCE_PREDICTIONS"
)

// Config holds every tunable of the server and the CLI.
type Config struct {
	// Addr is the listen address of `pricegen serve`.
	Addr string `yaml:"addr"`
	// APIURL pins the prediction service base URL. Empty means derive it
	// from the request origin (serve) or use DefaultAPIURL (CLI).
	APIURL string `yaml:"api_url"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level"`
	// HTTPTimeout bounds each call to the prediction service; zero disables it.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// SequencePredictions drops prediction responses older than the newest
	// applied one.
	SequencePredictions bool `yaml:"sequence_predictions"`
	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxSessions bounds the number of live browser sessions.
	MaxSessions int `yaml:"max_sessions"`
	// ShutdownTimeout caps graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultAPIURL is used by CLI commands when nothing else is configured.
const DefaultAPIURL = "http://localhost:8000"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		HTTPTimeout:     30 * time.Second,
		AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
		MaxSessions:     256,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load returns defaults overlaid with the YAML file at path (when non-empty)
// and the PRICEGEN_* environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvHTTPTimeout, err)
		}
		c.HTTPTimeout = d
	}
	if v, ok := lookup(EnvSequencePredictions); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSequencePredictions, err)
		}
		c.SequencePredictions = b
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("config: addr is required"))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, errors.New("config: http_timeout must not be negative"))
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, errors.New("config: max_sessions must be positive"))
	}
	if c.APIURL != "" && !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		errs = append(errs, fmt.Errorf("config: api_url %q must be an http(s) URL", c.APIURL))
	}
	return errors.Join(errs...)
}

// ResolvedAPIURL returns APIURL or DefaultAPIURL.
func (c Config) ResolvedAPIURL() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	return DefaultAPIURL
}
