package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/translation-api/internal/chunker"
	"github.com/pricofy/translation-api/internal/model"
)

var keys = []string{
	"ENVIRONMENT", "APP_SERVER_ADDR", "APP_LOG_LEVEL", "APP_OPEN_BROWSER", "APP_MODEL_BACKEND",
	"APP_MODEL_URL", "APP_MODEL_NAME", "APP_MODEL_FUNCTION", "APP_MODEL_TIMEOUT",
	"APP_SOURCE_LANG", "APP_TARGET_LANG", "APP_MAX_CHUNK_TOKENS",
}

// clearEnv unsets every config key for the test and points APP_ENV_FILE at a
// file that does not exist. Values are restored on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("server", nil)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.OpenBrowser)
	assert.Equal(t, model.KindHTTP, cfg.ModelBackend)
	assert.Equal(t, model.DefaultURL, cfg.ModelURL)
	assert.Equal(t, model.DefaultModelName, cfg.ModelName)
	assert.Equal(t, model.DefaultFunction, cfg.ModelFunction)
	assert.Equal(t, time.Duration(0), cfg.ModelTimeout)
	assert.Equal(t, model.Pair{Source: "en", Target: "fr"}, cfg.Pair())
	assert.Equal(t, chunker.DefaultMaxTokens, cfg.MaxChunkTokens)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_SERVER_ADDR", ":9000")
	t.Setenv("APP_OPEN_BROWSER", "false")
	t.Setenv("APP_MODEL_BACKEND", "stub")
	t.Setenv("APP_MODEL_TIMEOUT", "30s")
	t.Setenv("APP_TARGET_LANG", "de")
	t.Setenv("APP_MAX_CHUNK_TOKENS", "128")

	cfg, err := Load("server", nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, model.KindStub, cfg.ModelBackend)
	assert.Equal(t, 30*time.Second, cfg.ModelTimeout)
	assert.Equal(t, "de", cfg.TargetLang)
	assert.Equal(t, 128, cfg.MaxChunkTokens)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_SERVER_ADDR", ":9000")
	t.Setenv("APP_MODEL_BACKEND", "lambda")

	cfg, err := Load("server", []string{"-addr", ":7000", "-backend", "stub", "-no-browser"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, model.KindStub, cfg.ModelBackend)
	assert.False(t, cfg.OpenBrowser)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_SOURCE_LANG=de\nAPP_TARGET_LANG=es\n"), 0o600))
	t.Setenv("APP_ENV_FILE", path)
	t.Setenv("APP_TARGET_LANG", "it")

	cfg, err := Load("server", nil)
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.SourceLang, "value from env file")
	assert.Equal(t, "it", cfg.TargetLang, "environment wins over env file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"APP_OPEN_BROWSER", "maybe"},
		{"APP_MODEL_TIMEOUT", "soon"},
		{"APP_MAX_CHUNK_TOKENS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("server", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	clearEnv(t)
	_, err := Load("server", []string{"-bogus"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Addr:           DefaultAddr,
			ModelBackend:   model.KindHTTP,
			ModelURL:       model.DefaultURL,
			ModelFunction:  model.DefaultFunction,
			SourceLang:     "en",
			TargetLang:     "fr",
			MaxChunkTokens: 256,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"stub backend", func(c *Config) { c.ModelBackend = model.KindStub; c.ModelURL = "" }, false},
		{"unknown backend", func(c *Config) { c.ModelBackend = "onnx" }, true},
		{"http without url", func(c *Config) { c.ModelURL = "" }, true},
		{"lambda without function", func(c *Config) { c.ModelBackend = model.KindLambda; c.ModelFunction = "" }, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
		{"negative timeout", func(c *Config) { c.ModelTimeout = -time.Second }, true},
		{"zero chunk tokens", func(c *Config) { c.MaxChunkTokens = 0 }, true},
		{"unsupported language", func(c *Config) { c.TargetLang = "xx" }, true},
		{"same languages", func(c *Config) { c.TargetLang = "en" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownBackendIsTyped(t *testing.T) {
	c := &Config{Addr: DefaultAddr, ModelBackend: "onnx", SourceLang: "en", TargetLang: "fr", MaxChunkTokens: 1}
	assert.True(t, errors.Is(c.Validate(), model.ErrUnknownBackend))
}
