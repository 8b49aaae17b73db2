package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the default address of the inference sidecar.
const DefaultURL = "http://127.0.0.1:8500"

// HTTPBackend talks to an inference sidecar that hosts the model.
type HTTPBackend struct {
	BaseURL string
	Model   string
	http    *resty.Client
}

type sidecarTranslateRequest struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
	Model      string   `json:"model"`
}

type sidecarTranslateResponse struct {
	Translations []string `json:"translations"`
}

type sidecarScoreRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model"`
}

type sidecarScoreResponse struct {
	Scores []Score `json:"scores"`
}

type sidecarError struct {
	Error string `json:"error"`
}

// NewHTTPBackend creates a backend for the sidecar at baseURL.
func NewHTTPBackend(baseURL, model string) *HTTPBackend {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	return &HTTPBackend{BaseURL: baseURL, Model: model, http: c}
}

// Translate implements Backend.
func (b *HTTPBackend) Translate(ctx context.Context, texts []string, pair Pair) ([]string, error) {
	var resp sidecarTranslateResponse
	var apiErr sidecarError
	r, err := b.http.R().SetContext(ctx).
		SetBody(sidecarTranslateRequest{Texts: texts, SourceLang: pair.Source, TargetLang: pair.Target, Model: b.Model}).
		SetResult(&resp).
		SetError(&apiErr).
		Post("/translate")
	if err != nil {
		return nil, fmt.Errorf("sidecar translate: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("sidecar translate: %s; body: %s", r.Status(), errorBody(apiErr, r))
	}
	if err := checkCount("sidecar translate", len(texts), len(resp.Translations)); err != nil {
		return nil, err
	}
	return resp.Translations, nil
}

// Score implements Backend.
func (b *HTTPBackend) Score(ctx context.Context, texts []string) ([]Score, error) {
	var resp sidecarScoreResponse
	var apiErr sidecarError
	r, err := b.http.R().SetContext(ctx).
		SetBody(sidecarScoreRequest{Texts: texts, Model: b.Model}).
		SetResult(&resp).
		SetError(&apiErr).
		Post("/score")
	if err != nil {
		return nil, fmt.Errorf("sidecar score: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("sidecar score: %s; body: %s", r.Status(), errorBody(apiErr, r))
	}
	if err := checkCount("sidecar score", len(texts), len(resp.Scores)); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// Ready implements Backend.
func (b *HTTPBackend) Ready(ctx context.Context) error {
	r, err := b.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("sidecar health: %w", err)
	}
	if r.IsError() {
		return fmt.Errorf("sidecar health: %s; body: %s", r.Status(), r.String())
	}
	return nil
}

func errorBody(apiErr sidecarError, r *resty.Response) string {
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return r.String()
}
