package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiSpamPrompt = `You review feedback left by visitors on a website.
Answer with exactly one word: SPAM if the message below is spam, advertising,
abusive or contains links to unrelated offers; otherwise OK.

Message:
%s`

// GeminiModerationClient classifies feedback with a Gemini model.
type GeminiModerationClient struct {
	client *genai.Client
	model  string
}

func NewGeminiModerationClient(apiKey, model string) (*GeminiModerationClient, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiModerationClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiModerationClient) Name() string { return "gemini" }

func (c *GeminiModerationClient) IsFlagged(ctx context.Context, text string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0)
	m.SetTopK(1)

	resp, err := m.GenerateContent(ctx, genai.Text(fmt.Sprintf(geminiSpamPrompt, text)))
	if err != nil {
		return false, fmt.Errorf("gemini moderation: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return false, fmt.Errorf("gemini moderation: empty response")
	}

	return IsSpamVerdict(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// Close releases the underlying client.
func (c *GeminiModerationClient) Close() error {
	return c.client.Close()
}

// IsSpamVerdict interprets a one-word classifier answer.
func IsSpamVerdict(answer string) bool {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	return strings.HasPrefix(answer, "SPAM")
}
