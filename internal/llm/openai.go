package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const azureAPIVersion = "2024-08-01-preview"

// OpenAIClient generates text with OpenAI chat completions. With an Azure
// endpoint the model names are deployment names.
type OpenAIClient struct {
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAIClient creates a client for api.openai.com, or for Azure OpenAI when
// azureEndpoint is set. SDK-level retries are disabled so that one attempt of
// the fallback sequence is exactly one request.
func NewOpenAIClient(apiKey, azureEndpoint string, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if azureEndpoint != "" {
		opts = append(opts,
			azure.WithEndpoint(azureEndpoint, azureAPIVersion),
			azure.WithAPIKey(apiKey),
		)
	} else {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client: &client,
		logger: logger,
	}, nil
}

// Generate performs a single chat completion request
func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	requestStart := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", model)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Info("OpenAI token usage",
		zap.String("model", model),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("request_time", time.Since(requestStart)),
	)

	return content, nil
}
