package mail_fx

import (
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"helpful/internal/config"
	"helpful/internal/services"
)

var Module = fx.Provide(provideMailService, providePushService)

const pushTimeout = 10 * time.Second

// provideMailService falls back to a transport that always fails when SMTP is
// not configured, so submissions are still stored.
func provideMailService(cfg *config.Config) services.IMailService {
	mailService, err := services.NewSMTPMailService(cfg.SMTP)
	if err != nil {
		log.Warn().Err(err).Msg("SMTP not configured, feedback emails disabled")
		return services.NewNoopMailService()
	}
	return mailService
}

func providePushService(cfg *config.Config) (services.PushServiceInterface, error) {
	push, err := services.NewPushService(cfg.PushURLs, pushTimeout)
	if err != nil {
		return nil, err
	}
	if push.Enabled() {
		log.Info().Int("targets", len(cfg.PushURLs)).Msg("push notifications enabled")
	}
	return push, nil
}
