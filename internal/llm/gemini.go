package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient generates text with the Google Gemini API
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini client. baseURL is optional and only set
// when talking to a proxy or a test server.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		logger: logger,
	}, nil
}

// Generate sends prompt to model and returns the text of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	requestStart := time.Now()

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	fields := []zap.Field{
		zap.String("model", model),
		zap.Duration("request_time", time.Since(requestStart)),
	}
	if resp.UsageMetadata != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("completion_tokens", resp.UsageMetadata.CandidatesTokenCount),
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount),
		)
	}
	c.logger.Info("Gemini token usage", fields...)

	return text, nil
}
