// Package main serves the translation API from AWS Lambda behind an API
// Gateway HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/apigw"
	"github.com/pricofy/translation-api/internal/app"
	"github.com/pricofy/translation-api/internal/config"
	"github.com/pricofy/translation-api/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[0], nil)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("startup failed", "error", err)
	}

	warmer, err := NewWarmer(ctx, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), a.Backend)
	if err != nil {
		logger.Fatalw("warmer setup failed", "error", err)
	}

	h := &handler{adapter: apigw.New(a.Handler), warmer: warmer, logger: logger}
	lambda.Start(h.handleRequest)
}

type handler struct {
	adapter *apigw.Adapter
	warmer  *Warmer
	logger  *zap.SugaredLogger
}

func (h *handler) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection comes before any other processing.
	if warmup, ok := IsWarmupEvent(event); ok {
		return h.warmer.Handle(ctx, warmup, h.logger)
	}

	var req events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("decode API Gateway event: %w", err)
	}
	return h.adapter.Serve(ctx, req)
}
