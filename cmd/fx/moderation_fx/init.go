// cmd/fx/moderation_fx/init.go
package moderation_fx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"helpful/internal/config"
	"helpful/internal/services"
	"helpful/pkg/utils"
)

var Module = fx.Provide(
	ProvideModerationClient,
	ProvideSpamService)

// ProvideModerationClient creates the optional moderation client. A nil
// client disables the moderation step of the spam policy.
func ProvideModerationClient(lc fx.Lifecycle, cfg *config.Config) (utils.ModerationClientInterface, error) {
	mc := cfg.Moderation

	switch mc.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		if mc.APIKey == "" {
			return nil, fmt.Errorf("MODERATION_API_KEY is required when using the openai provider")
		}
		log.Info().Str("provider", "openai").Msg("moderation enabled")
		return utils.NewOpenAIModerationClient(mc.APIKey, mc.Model), nil
	case "gemini":
		if mc.APIKey == "" {
			return nil, fmt.Errorf("MODERATION_API_KEY is required when using the gemini provider")
		}
		client, err := utils.NewGeminiModerationClient(mc.APIKey, mc.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		log.Info().Str("provider", "gemini").Msg("moderation enabled")
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported moderation provider: %s. Use 'none', 'openai' or 'gemini'", mc.Provider)
	}
}

func ProvideSpamService(moderation utils.ModerationClientInterface) services.SpamServiceInterface {
	return services.NewSpamService(moderation)
}
