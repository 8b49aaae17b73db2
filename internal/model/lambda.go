package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// DefaultFunction is the default name of the translator Lambda.
const DefaultFunction = "m2m100-translator"

// Lambda payload actions.
const (
	ActionTranslate = "translate"
	ActionScore     = "score"
	ActionPing      = "ping"
)

// LambdaAPI is the subset of the Lambda client used here.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// LambdaRequest is the payload sent to the translator Lambda.
type LambdaRequest struct {
	Action     string     `json:"action"`
	Chunks     [][]string `json:"chunks,omitempty"`
	Texts      []string   `json:"texts,omitempty"`
	SourceLang string     `json:"source_lang,omitempty"`
	TargetLang string     `json:"target_lang,omitempty"`
	Model      string     `json:"model,omitempty"`
}

// LambdaResponse is the payload returned by the translator Lambda.
type LambdaResponse struct {
	Translations [][]string `json:"translations,omitempty"`
	Scores       []Score    `json:"scores,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// LambdaBackend invokes a Lambda function that hosts the model.
type LambdaBackend struct {
	client       LambdaAPI
	functionName string
	model        string
}

// NewLambdaBackend loads the default AWS config and creates a backend for functionName.
func NewLambdaBackend(ctx context.Context, functionName, model string) (*LambdaBackend, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewLambdaBackendWithClient(lambda.NewFromConfig(cfg), functionName, model), nil
}

// NewLambdaBackendWithClient creates a backend with an injected client.
func NewLambdaBackendWithClient(client LambdaAPI, functionName, model string) *LambdaBackend {
	if functionName == "" {
		functionName = DefaultFunction
	}
	return &LambdaBackend{client: client, functionName: functionName, model: model}
}

// Translate implements Backend. Each text is sent as its own chunk so the
// function translates them one after another.
func (b *LambdaBackend) Translate(ctx context.Context, texts []string, pair Pair) ([]string, error) {
	chunks := make([][]string, len(texts))
	for i, text := range texts {
		chunks[i] = []string{text}
	}

	resp, err := b.invoke(ctx, LambdaRequest{
		Action:     ActionTranslate,
		Chunks:     chunks,
		SourceLang: pair.Source,
		TargetLang: pair.Target,
		Model:      b.model,
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(texts))
	for _, chunk := range resp.Translations {
		out = append(out, chunk...)
	}
	if err := checkCount("lambda translate", len(texts), len(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// Score implements Backend.
func (b *LambdaBackend) Score(ctx context.Context, texts []string) ([]Score, error) {
	resp, err := b.invoke(ctx, LambdaRequest{Action: ActionScore, Texts: texts, Model: b.model})
	if err != nil {
		return nil, err
	}
	if err := checkCount("lambda score", len(texts), len(resp.Scores)); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// Ready implements Backend. It checks the function exists and is active.
func (b *LambdaBackend) Ready(ctx context.Context) error {
	out, err := b.client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(b.functionName)})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", b.functionName, err)
	}
	if out.Configuration != nil && out.Configuration.State != "" && out.Configuration.State != types.StateActive {
		return fmt.Errorf("function %s is %s", b.functionName, out.Configuration.State)
	}
	return nil
}

// Ping invokes the function with a no-op payload so its model stays loaded.
func (b *LambdaBackend) Ping(ctx context.Context) error {
	_, err := b.invoke(ctx, LambdaRequest{Action: ActionPing})
	return err
}

func (b *LambdaBackend) invoke(ctx context.Context, req LambdaRequest) (*LambdaResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := b.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(b.functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", b.functionName, err)
	}

	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp LambdaResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}
	return &resp, nil
}
