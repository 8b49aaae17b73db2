// Package model provides the backends that host the pretrained translation model.
//
// The model weights, tokenizer and inference routine are external: a backend
// only moves text to the model and results back. Three backends exist: an HTTP
// inference sidecar, an AWS Lambda function, and a deterministic stub.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultModelName is the pretrained checkpoint served by the backends.
const DefaultModelName = "facebook/m2m100_418M"

// Backend kinds accepted by New.
const (
	KindHTTP   = "http"
	KindLambda = "lambda"
	KindStub   = "stub"
)

var (
	// ErrOutputMismatch is returned when a backend answers with a different
	// number of outputs than inputs.
	ErrOutputMismatch = errors.New("model returned mismatched output count")
	// ErrUnknownBackend is returned by New for an unsupported kind.
	ErrUnknownBackend = errors.New("unknown model backend")
)

// Pair is the fixed source/target language pair of a backend.
type Pair struct {
	Source string `json:"source_lang"`
	Target string `json:"target_lang"`
}

func (p Pair) String() string { return p.Source + "→" + p.Target }

// Score is the evaluation of one text used as its own label: mean token-level
// cross-entropy and the number of tokens it was averaged over.
type Score struct {
	Loss   float64 `json:"loss"`
	Tokens int     `json:"tokens"`
}

// Backend hosts the translation model.
type Backend interface {
	// Translate translates each text from pair.Source to pair.Target.
	// The result has one entry per input, in order.
	Translate(ctx context.Context, texts []string, pair Pair) ([]string, error)

	// Score feeds each text to the model as its own label and returns the loss.
	Score(ctx context.Context, texts []string) ([]Score, error)

	// Ready reports whether the model is loaded and reachable.
	Ready(ctx context.Context) error
}

// Options configures New.
type Options struct {
	Kind     string
	Model    string
	URL      string        // http backend base URL
	Function string        // lambda function name
	Timeout  time.Duration // per-call bound; zero means none
}

// New builds the backend named by opts.Kind.
func New(ctx context.Context, opts Options) (Backend, error) {
	if opts.Model == "" {
		opts.Model = DefaultModelName
	}

	var b Backend
	switch opts.Kind {
	case KindHTTP:
		b = NewHTTPBackend(opts.URL, opts.Model)
	case KindLambda:
		lb, err := NewLambdaBackend(ctx, opts.Function, opts.Model)
		if err != nil {
			return nil, err
		}
		b = lb
	case KindStub:
		b = NewStubBackend(nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Kind)
	}
	return WithTimeout(b, opts.Timeout), nil
}

// WithTimeout bounds every call to b by d. A zero d returns b unchanged.
func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}
	return &timeoutBackend{next: b, timeout: d}
}

type timeoutBackend struct {
	next    Backend
	timeout time.Duration
}

func (t *timeoutBackend) Translate(ctx context.Context, texts []string, pair Pair) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Translate(ctx, texts, pair)
}

func (t *timeoutBackend) Score(ctx context.Context, texts []string) ([]Score, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Score(ctx, texts)
}

func (t *timeoutBackend) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Ready(ctx)
}

func (t *timeoutBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return Ping(ctx, t.next)
}

// Pinger is implemented by backends that can be woken without doing work.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping wakes b, falling back to Ready when b is not a Pinger.
func Ping(ctx context.Context, b Backend) error {
	if p, ok := b.(Pinger); ok {
		return p.Ping(ctx)
	}
	return b.Ready(ctx)
}

func checkCount(kind string, want, got int) error {
	if want != got {
		return fmt.Errorf("%s: %w: sent %d, got %d", kind, ErrOutputMismatch, want, got)
	}
	return nil
}
