package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/api"
	"github.com/pricofy/translation-api/internal/chunker"
	"github.com/pricofy/translation-api/internal/metrics"
	"github.com/pricofy/translation-api/internal/model"
	"github.com/pricofy/translation-api/internal/monitor"
	"github.com/pricofy/translation-api/internal/translation"
)

func newAPI(t *testing.T, memMB float64) *httptest.Server {
	t.Helper()
	stub := model.NewStubBackend(nil)
	svc, err := translation.NewService(stub, model.Pair{Source: "en", Target: "fr"}, chunker.DefaultMaxTokens)
	require.NoError(t, err)

	memory := monitor.MemoryFunc(func() (float64, error) { return memMB, nil })
	ic := monitor.NewInterceptor(monitor.NewState(), memory, zap.NewNop().Sugar(), monitor.NewMetrics(prometheus.NewRegistry()))

	srv := httptest.NewServer(api.NewHandler(api.Config{
		Translator:  svc,
		Evaluator:   metrics.NewEvaluator(stub),
		Interceptor: ic,
		Logger:      zap.NewNop().Sugar(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_TranslateArgs(t *testing.T) {
	srv := newAPI(t, 100)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-api", srv.URL, "How", "are", "you?"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Translated text: Comment allez-vous ?")
	assert.Contains(t, stdout.String(), "Memory usage:    100.00 MB")
	assert.Empty(t, stderr.String())
}

func TestRun_HighMemoryWarning(t *testing.T) {
	srv := newAPI(t, 250)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-api", srv.URL, "Hello"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "high memory usage")
}

func TestRun_InvalidInput(t *testing.T) {
	srv := newAPI(t, 100)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-api", srv.URL, "50%", "off"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "invalid characters")
	assert.Empty(t, stdout.String())
}

func TestRun_Stdin(t *testing.T) {
	srv := newAPI(t, 100)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-api", srv.URL}, strings.NewReader("Hello\n\nThank you very much.\n"), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Bonjour")
	assert.Contains(t, stdout.String(), "Merci beaucoup.")
	assert.Equal(t, 2, strings.Count(stdout.String(), "Translated text:"))
}

func TestRun_Monitor(t *testing.T) {
	srv := newAPI(t, 100)
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, run(context.Background(), []string{"-api", srv.URL, "Hello"}, strings.NewReader(""), &stdout, &stderr))
	stdout.Reset()

	code := run(context.Background(), []string{"-api", srv.URL, "-monitor"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Total requests:     2")
	assert.Contains(t, stdout.String(), "Min memory usage:   100.00 MB")
}

func TestRun_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-api", url, "Hello"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "translation API unavailable")
}
