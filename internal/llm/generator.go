// Package llm binds the hosted text-generation services and runs the model fallback sequence.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Generator is the text-generation capability: given a model and a prompt it
// returns generated text or fails. Implementations must return once ctx is
// done; an attempt that outlives its deadline is abandoned but its goroutine
// stays until Generate returns.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// ErrEmptyResponse is returned when a model answers with no text
var ErrEmptyResponse = errors.New("empty content in response")

// IsNotFound reports whether err means the model does not exist or is not
// available to the configured key. It only affects logging.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code == 404
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode == 404 || openaiErr.Code == "model_not_found" || openaiErr.Code == "DeploymentNotFound"
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "not found") || strings.Contains(errStr, "404")
}
