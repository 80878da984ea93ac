package utils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIModerationClient asks the OpenAI moderation endpoint whether a text is
// acceptable.
type OpenAIModerationClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIModerationClient(apiKey, model string) *OpenAIModerationClient {
	if model == "" {
		model = openai.ModerationTextLatest
	}
	return &OpenAIModerationClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIModerationClient) Name() string { return "openai" }

func (c *OpenAIModerationClient) IsFlagged(ctx context.Context, text string) (bool, error) {
	resp, err := c.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: c.model,
	})
	if err != nil {
		return false, fmt.Errorf("openai moderation: %w", err)
	}

	for _, result := range resp.Results {
		if result.Flagged {
			return true, nil
		}
	}
	return false, nil
}
