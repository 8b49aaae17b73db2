// Package api exposes translation, validation and monitoring over HTTP.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/monitor"
)

// Operation names used by the interceptor.
const (
	OpTranslate = "translate"
	OpValidate  = "validate"
	OpMonitor   = "monitor"
)

// Config wires the API to its collaborators.
type Config struct {
	Translator  Translator
	Evaluator   PerplexityEvaluator
	Interceptor *monitor.Interceptor
	Gatherer    prometheus.Gatherer // nil disables /metrics
	Logger      *zap.SugaredLogger
}

// NewHandler returns the API routes. Translate, validate and monitor pass
// through the interceptor; the health, metrics and documentation routes do not.
func NewHandler(cfg Config) http.Handler {
	ic := cfg.Interceptor
	logger := cfg.Logger

	mux := http.NewServeMux()
	mux.Handle("POST /translate", ic.Wrap(OpTranslate, translateHandler(cfg.Translator, cfg.Evaluator, logger)))
	mux.Handle("POST /validate", ic.Wrap(OpValidate, validateHandler(logger)))
	mux.Handle("GET /monitor", ic.Wrap(OpMonitor, monitorHandler(ic.State(), logger)))

	mux.HandleFunc("GET /healthz", healthHandler(logger))
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	registerDocs(mux, logger)

	return mux
}
