package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/apigw"
	"github.com/pricofy/translation-api/internal/model"
)

type fakeInvoker struct {
	mu     sync.Mutex
	inputs []*lambdasdk.InvokeInput
	err    error
}

func (f *fakeInvoker) Invoke(_ context.Context, in *lambdasdk.InvokeInput, _ ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &lambdasdk.InvokeOutput{}, f.err
}

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       string
		isWarmup    bool
		concurrency int
	}{
		{"warmup with concurrency", `{"source":"warmup","concurrency":3}`, true, 3},
		{"warmup without concurrency", `{"source":"warmup"}`, true, 0},
		{"negative concurrency", `{"source":"warmup","concurrency":-2}`, true, 0},
		{"other source", `{"source":"aws.events"}`, false, 0},
		{"api gateway event", `{"rawPath":"/translate","body":"{}"}`, false, 0},
		{"not an object", `[1,2]`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warmup, ok := IsWarmupEvent(json.RawMessage(tt.event))
			assert.Equal(t, tt.isWarmup, ok)
			if ok {
				assert.Equal(t, tt.concurrency, warmup.Concurrency)
			}
		})
	}
}

func warmBody(t *testing.T, out interface{}) WarmupResponse {
	t.Helper()
	m, ok := out.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 200, m["statusCode"])
	body, ok := m["body"].(WarmupResponse)
	require.True(t, ok)
	return body
}

func TestWarmer_SelfInvokes(t *testing.T) {
	inv := &fakeInvoker{}
	w := NewWarmerWithClient(inv, "translation-api", model.NewStubBackend(nil))
	w.delay = 0

	out, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 3}, zap.NewNop().Sugar())
	require.NoError(t, err)

	body := warmBody(t, out)
	assert.Equal(t, "warm", body.Status)
	assert.Equal(t, 4, body.InstancesWarmed)
	assert.True(t, body.ModelWarm)

	require.Len(t, inv.inputs, 3)
	for _, in := range inv.inputs {
		assert.Equal(t, "translation-api", aws.ToString(in.FunctionName))
		assert.Equal(t, types.InvocationTypeEvent, in.InvocationType)

		child, ok := IsWarmupEvent(in.Payload)
		require.True(t, ok)
		assert.Equal(t, 0, child.Concurrency)
	}
}

func TestWarmer_InvokeFailure(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("throttled")}
	w := NewWarmerWithClient(inv, "translation-api", model.NewStubBackend(nil))
	w.delay = 0

	out, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 2}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, 1, warmBody(t, out).InstancesWarmed)
}

type coldBackend struct{ *model.StubBackend }

func (coldBackend) Ready(context.Context) error { return errors.New("cold") }

func TestWarmer_ModelPingFailure(t *testing.T) {
	w := NewWarmerWithClient(&fakeInvoker{}, "translation-api", coldBackend{model.NewStubBackend(nil)})
	w.delay = 0

	out, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.False(t, warmBody(t, out).ModelWarm)
}

func TestHandleRequest_APIGateway(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	h := &handler{adapter: apigw.New(mux), logger: zap.NewNop().Sugar()}

	event := `{"rawPath":"/healthz","requestContext":{"http":{"method":"GET","path":"/healthz"}}}`
	out, err := h.handleRequest(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	resp, ok := out.(events.APIGatewayV2HTTPResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"ok"}`, resp.Body)
}

func TestHandleRequest_Warmup(t *testing.T) {
	w := NewWarmerWithClient(&fakeInvoker{}, "translation-api", model.NewStubBackend(nil))
	w.delay = 0
	h := &handler{warmer: w, logger: zap.NewNop().Sugar()}

	out, err := h.handleRequest(context.Background(), json.RawMessage(`{"source":"warmup"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, warmBody(t, out).InstancesWarmed)
}
