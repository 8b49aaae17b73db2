package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pricofy/translation-api/internal/model"
)

// ErrInvalidLoss is returned when the model reports a loss that cannot be a
// cross-entropy (negative or NaN).
var ErrInvalidLoss = errors.New("invalid model loss")

// Scorer evaluates texts under the translation model.
type Scorer interface {
	Score(ctx context.Context, texts []string) ([]model.Score, error)
}

// Evaluator computes model-dependent metrics.
type Evaluator struct {
	scorer Scorer
}

// NewEvaluator creates an Evaluator backed by scorer.
func NewEvaluator(scorer Scorer) *Evaluator {
	return &Evaluator{scorer: scorer}
}

// ComputePerplexity returns exp of the mean token cross-entropy of text, with
// the text used as its own label. Text with no tokens returns +Inf.
func (e *Evaluator) ComputePerplexity(ctx context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return math.Inf(1), nil
	}

	scores, err := e.scorer.Score(ctx, []string{text})
	if err != nil {
		return 0, fmt.Errorf("score: %w", err)
	}
	if len(scores) != 1 {
		return 0, fmt.Errorf("score: %w", model.ErrOutputMismatch)
	}
	return Perplexity(scores[0])
}

// Perplexity converts a model score to perplexity.
func Perplexity(s model.Score) (float64, error) {
	if s.Tokens <= 0 {
		return math.Inf(1), nil
	}
	if math.IsNaN(s.Loss) || s.Loss < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLoss, s.Loss)
	}
	return math.Exp(s.Loss), nil
}
