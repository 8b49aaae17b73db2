// Package app assembles the translation API from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/api"
	"github.com/pricofy/translation-api/internal/config"
	"github.com/pricofy/translation-api/internal/metrics"
	"github.com/pricofy/translation-api/internal/model"
	"github.com/pricofy/translation-api/internal/monitor"
	"github.com/pricofy/translation-api/internal/translation"
)

// App is a fully wired API.
type App struct {
	Handler  http.Handler
	Service  *translation.Service
	Backend  model.Backend
	State    *monitor.State
	Registry *prometheus.Registry
}

// New builds the model backend and everything that depends on it, then
// checks that the model is ready. A model that is not ready is an error.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	backend, err := model.New(ctx, cfg.ModelOptions())
	if err != nil {
		return nil, fmt.Errorf("create model backend: %w", err)
	}
	return NewWithBackend(ctx, cfg, backend, logger)
}

// NewWithBackend is New with a caller-supplied backend.
func NewWithBackend(ctx context.Context, cfg *config.Config, backend model.Backend, logger *zap.SugaredLogger) (*App, error) {
	svc, err := translation.NewService(backend, cfg.Pair(), cfg.MaxChunkTokens)
	if err != nil {
		return nil, fmt.Errorf("create translation service: %w", err)
	}
	if err := svc.Ready(ctx); err != nil {
		return nil, err
	}

	sampler, err := monitor.NewProcessMemory()
	if err != nil {
		return nil, fmt.Errorf("create memory sampler: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	state := monitor.NewState()
	interceptor := monitor.NewInterceptor(state, sampler, logger, monitor.NewMetrics(reg))

	handler := api.NewHandler(api.Config{
		Translator:  svc,
		Evaluator:   metrics.NewEvaluator(backend),
		Interceptor: interceptor,
		Gatherer:    reg,
		Logger:      logger,
	})

	logger.Infow("translation API ready",
		"backend", cfg.ModelBackend,
		"model", cfg.ModelName,
		"pair", cfg.Pair().String(),
	)

	return &App{
		Handler:  handler,
		Service:  svc,
		Backend:  backend,
		State:    state,
		Registry: reg,
	}, nil
}
