// Package translation wraps the model backend behind a single text-in,
// text-out operation for one fixed language pair.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pricofy/translation-api/internal/chunker"
	"github.com/pricofy/translation-api/internal/model"
)

// ErrTranslationFailed wraps every failure of the model call.
var ErrTranslationFailed = errors.New("translation failed")

// Service translates text with the configured backend. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	backend   model.Backend
	pair      model.Pair
	maxTokens int
}

// NewService creates a Service. maxTokens <= 0 selects chunker.DefaultMaxTokens.
func NewService(backend model.Backend, pair model.Pair, maxTokens int) (*Service, error) {
	if backend == nil {
		return nil, errors.New("model backend is required")
	}
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		maxTokens = chunker.DefaultMaxTokens
	}
	return &Service{backend: backend, pair: pair, maxTokens: maxTokens}, nil
}

// Pair returns the language pair the service translates.
func (s *Service) Pair() model.Pair { return s.pair }

// Ready checks that the model backend can serve requests.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.backend.Ready(ctx); err != nil {
		return fmt.Errorf("model backend not ready: %w", err)
	}
	return nil
}

// Translate returns the translation of text. It is not retried and yields no
// partial output: any model error is returned wrapped in ErrTranslationFailed.
func (s *Service) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty input", ErrTranslationFailed)
	}

	inputs := chunker.Segment(text, s.maxTokens)
	outputs, err := s.backend.Translate(ctx, inputs, s.pair)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}
	if len(outputs) != len(inputs) {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, model.ErrOutputMismatch)
	}

	translated := strings.TrimSpace(strings.Join(outputs, " "))
	if translated == "" {
		return "", fmt.Errorf("%w: model returned an empty translation", ErrTranslationFailed)
	}
	return translated, nil
}
