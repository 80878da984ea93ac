package utils

import "context"

// ModerationClientInterface classifies free text submitted by visitors.
type ModerationClientInterface interface {
	IsFlagged(ctx context.Context, text string) (bool, error)
	Name() string
}
