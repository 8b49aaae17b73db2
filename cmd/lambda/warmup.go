package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/model"
)

const (
	// WarmupSource identifies scheduled warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the self-invocations
	// to land on other instances.
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent is the scheduled event payload.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup events.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
	ModelWarm       bool   `json:"modelWarm"`
}

// Invoker is the subset of the Lambda client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer keeps API instances and the model function warm.
type Warmer struct {
	client       Invoker
	functionName string
	backend      model.Backend
	delay        time.Duration
}

// NewWarmer loads the default AWS config for self-invocation.
func NewWarmer(ctx context.Context, functionName string, backend model.Backend) (*Warmer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWarmerWithClient(lambdasdk.NewFromConfig(cfg), functionName, backend), nil
}

// NewWarmerWithClient creates a Warmer with an injected client.
func NewWarmerWithClient(client Invoker, functionName string, backend model.Backend) *Warmer {
	return &Warmer{client: client, functionName: functionName, backend: backend, delay: WarmupDelay}
}

// IsWarmupEvent reports whether event is a warmup event.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// Handle pings the model and, when asked, invokes this function Concurrency
// more times so that many instances are warm at once.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent, logger *zap.SugaredLogger) (interface{}, error) {
	resp := WarmupResponse{Status: "warm", InstancesWarmed: 1}

	if err := model.Ping(ctx, w.backend); err != nil {
		logger.Warnw("model ping failed", "error", err)
	} else {
		resp.ModelWarm = true
	}

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			logger.Warnw("self-invoke failed", "concurrency", warmup.Concurrency, "error", err)
		} else {
			resp.InstancesWarmed += warmup.Concurrency
		}
	}

	time.Sleep(w.delay)

	return map[string]interface{}{
		"statusCode": 200,
		"body":       resp,
	}, nil
}

// selfInvoke invokes this function count times asynchronously.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// Children get concurrency 0 so they do not fan out again.
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
