// Package client calls the translation API over HTTP.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pricofy/translation-api/internal/domain"
)

// DefaultBaseURL is where the server listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrUpstreamUnavailable is returned when the API cannot be reached.
var ErrUpstreamUnavailable = errors.New("translation API unavailable")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a translation API client.
type Client struct {
	BaseURL string
	http    *resty.Client
}

// New creates a client for baseURL. No retries are configured.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New().SetTimeout(timeout),
	}
}

// Validate checks text with the API. A rejected text is not an error: the
// response has Success false and the reasons in Details.
func (c *Client) Validate(ctx context.Context, text string) (*domain.ValidationResponse, error) {
	var out domain.ValidationResponse
	r, err := c.http.R().SetContext(ctx).
		SetBody(domain.TranslationRequest{Text: text}).
		SetResult(&out).
		SetError(&out).
		Post(c.BaseURL + "/validate")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if r.IsError() {
		return nil, &APIError{StatusCode: r.StatusCode(), Message: out.Error, Details: out.Details}
	}
	return &out, nil
}

// Translate translates text.
func (c *Client) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	var out domain.TranslationResult
	var apiErr domain.ErrorResponse
	r, err := c.http.R().SetContext(ctx).
		SetBody(domain.TranslationRequest{Text: text}).
		SetResult(&out).
		SetError(&apiErr).
		Post(c.BaseURL + "/translate")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if r.IsError() {
		return nil, newAPIError(r, apiErr)
	}
	return &out, nil
}

// Monitor returns the server request statistics.
func (c *Client) Monitor(ctx context.Context) (*domain.MonitorSnapshot, error) {
	var out domain.MonitorSnapshot
	var apiErr domain.ErrorResponse
	r, err := c.http.R().SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get(c.BaseURL + "/monitor")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if r.IsError() {
		return nil, newAPIError(r, apiErr)
	}
	return &out, nil
}

func newAPIError(r *resty.Response, body domain.ErrorResponse) *APIError {
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(r.StatusCode())
	}
	return &APIError{StatusCode: r.StatusCode(), Message: msg, Details: body.Details}
}
