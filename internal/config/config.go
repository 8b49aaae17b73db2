// Package config loads server settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/pricofy/translation-api/internal/chunker"
	"github.com/pricofy/translation-api/internal/model"
)

// DefaultAddr is the listen address used when APP_SERVER_ADDR is not set.
const DefaultAddr = "127.0.0.1:8000"

// Config holds the process settings.
type Config struct {
	Environment    string
	Addr           string
	LogLevel       string
	OpenBrowser    bool
	ModelBackend   string
	ModelURL       string
	ModelName      string
	ModelFunction  string
	ModelTimeout   time.Duration
	SourceLang     string
	TargetLang     string
	MaxChunkTokens int
}

// Load reads the .env file named by APP_ENV_FILE (default ".env", missing is
// fine), then the environment, then parses args as flags.
func Load(name string, args []string) (*Config, error) {
	if err := godotenv.Load(envOr("APP_ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	openBrowser, err := boolEnv("APP_OPEN_BROWSER", true)
	if err != nil {
		return nil, err
	}
	timeout, err := durationEnv("APP_MODEL_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	maxTokens, err := intEnv("APP_MAX_CHUNK_TOKENS", chunker.DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.Environment, "env", envOr("ENVIRONMENT", "prod"), "deployment environment (dev enables console logs)")
	flags.StringVar(&cfg.Addr, "addr", envOr("APP_SERVER_ADDR", DefaultAddr), "listen address")
	flags.StringVar(&cfg.LogLevel, "log-level", envOr("APP_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flags.BoolVar(&cfg.OpenBrowser, "open-browser", openBrowser, "open the docs page on startup")
	noBrowser := flags.Bool("no-browser", false, "do not open the docs page on startup")
	flags.StringVar(&cfg.ModelBackend, "backend", envOr("APP_MODEL_BACKEND", model.KindHTTP), "model backend: http, lambda, stub")
	flags.StringVar(&cfg.ModelURL, "model-url", envOr("APP_MODEL_URL", model.DefaultURL), "base URL of the model sidecar")
	flags.StringVar(&cfg.ModelName, "model", envOr("APP_MODEL_NAME", model.DefaultModelName), "pretrained model name")
	flags.StringVar(&cfg.ModelFunction, "model-function", envOr("APP_MODEL_FUNCTION", model.DefaultFunction), "Lambda function serving the model")
	flags.DurationVar(&cfg.ModelTimeout, "model-timeout", timeout, "bound on each model call, 0 for none")
	flags.StringVar(&cfg.SourceLang, "source", envOr("APP_SOURCE_LANG", "en"), "source language")
	flags.StringVar(&cfg.TargetLang, "target", envOr("APP_TARGET_LANG", "fr"), "target language")
	flags.IntVar(&cfg.MaxChunkTokens, "max-chunk-tokens", maxTokens, "token budget per model call")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if *noBrowser {
		cfg.OpenBrowser = false
	}
	return cfg, nil
}

// Pair returns the configured language pair.
func (c *Config) Pair() model.Pair {
	return model.Pair{Source: c.SourceLang, Target: c.TargetLang}
}

// ModelOptions returns the options for model.New.
func (c *Config) ModelOptions() model.Options {
	return model.Options{
		Kind:     c.ModelBackend,
		Model:    c.ModelName,
		URL:      c.ModelURL,
		Function: c.ModelFunction,
		Timeout:  c.ModelTimeout,
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.ModelBackend {
	case model.KindHTTP:
		if c.ModelURL == "" {
			return fmt.Errorf("model URL is required for the %s backend", c.ModelBackend)
		}
	case model.KindLambda:
		if c.ModelFunction == "" {
			return fmt.Errorf("model function is required for the %s backend", c.ModelBackend)
		}
	case model.KindStub:
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownBackend, c.ModelBackend)
	}
	if c.ModelTimeout < 0 {
		return fmt.Errorf("model timeout must not be negative")
	}
	if c.MaxChunkTokens <= 0 {
		return fmt.Errorf("max chunk tokens must be positive, got %d", c.MaxChunkTokens)
	}
	if err := c.Pair().Validate(); err != nil {
		return fmt.Errorf("language pair: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
