package model

import (
	"context"
	"math"
	"strings"
	"time"
)

// StubConfig configures the stub backend behavior.
type StubConfig struct {
	// ProcessingDelay simulates inference time.
	ProcessingDelay time.Duration
	// Dictionary maps source text to translated text per target language.
	// Unknown text is returned as "[lang] " + text.
	Dictionary map[string]map[string]string // [targetLang][sourceText]translatedText
}

// DefaultStubConfig returns deterministic English → French fixtures.
func DefaultStubConfig() *StubConfig {
	return &StubConfig{
		Dictionary: map[string]map[string]string{
			"fr": {
				"Hello":                      "Bonjour",
				"Hello, world!":              "Bonjour le monde !",
				"Good morning.":              "Bonjour.",
				"How are you?":               "Comment allez-vous ?",
				"Thank you very much.":       "Merci beaucoup.",
				"The weather is nice today.": "Il fait beau aujourd'hui.",
			},
		},
	}
}

// StubBackend is an offline backend returning deterministic output.
type StubBackend struct {
	config *StubConfig
}

// NewStubBackend creates a stub backend; nil selects DefaultStubConfig.
func NewStubBackend(config *StubConfig) *StubBackend {
	if config == nil {
		config = DefaultStubConfig()
	}
	return &StubBackend{config: config}
}

// Translate implements Backend.
func (s *StubBackend) Translate(ctx context.Context, texts []string, pair Pair) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = s.lookup(text, pair.Target)
	}
	return out, nil
}

// Score implements Backend. Tokens are whitespace-separated words plus an
// end-of-sequence token; the loss falls as the share of repeated words rises.
func (s *StubBackend) Score(ctx context.Context, texts []string) ([]Score, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]Score, len(texts))
	for i, text := range texts {
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[strings.ToLower(w)] = struct{}{}
		}
		out[i] = Score{
			Loss:   math.Log1p(float64(len(unique))) / 2,
			Tokens: len(words) + 1,
		}
	}
	return out, nil
}

// Ready implements Backend.
func (s *StubBackend) Ready(context.Context) error { return nil }

func (s *StubBackend) wait(ctx context.Context) error {
	if s.config.ProcessingDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.config.ProcessingDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *StubBackend) lookup(text, targetLang string) string {
	if langDict, ok := s.config.Dictionary[targetLang]; ok {
		if translated, ok := langDict[text]; ok {
			return translated
		}
	}
	return "[" + targetLang + "] " + text
}
