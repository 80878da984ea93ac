package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/pkg/utils"
)

type SpamServiceInterface interface {
	// IsBlocklisted reports whether text must be rejected.
	IsBlocklisted(ctx context.Context, settings config.Settings, text string) bool
}

type SpamService struct {
	moderation utils.ModerationClientInterface
}

// NewSpamService builds the blocklist policy. moderation may be nil.
func NewSpamService(moderation utils.ModerationClientInterface) SpamServiceInterface {
	return &SpamService{moderation: moderation}
}

func (s *SpamService) IsBlocklisted(ctx context.Context, settings config.Settings, text string) bool {
	if MatchesBlocklist(settings.BlocklistKeys, text) {
		return true
	}
	if s.moderation == nil {
		return false
	}

	flagged, err := s.moderation.IsFlagged(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("provider", s.moderation.Name()).Msg("moderation check failed, accepting message")
		return false
	}
	return flagged
}

// MatchesBlocklist reports whether text contains any of the newline separated
// keys, ignoring case. Blank keys are skipped.
func MatchesBlocklist(keys, text string) bool {
	if strings.TrimSpace(keys) == "" || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, key := range strings.Split(keys, "\n") {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}
