package memcache_fx

import (
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"helpful/internal/config"
	mem "helpful/pkg/memcache"
	"helpful/pkg/middleware"
	"helpful/pkg/utils"
)

var Module = fx.Provide(provideNonceStore, provideSessionStore)

func provideNonceStore(cfg *config.Config) mem.NonceStore {
	return mem.NewNonces(cfg.NonceTTL)
}

func provideSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		generated, err := utils.GenerateSecureToken(32)
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("SESSION_SECRET not set, visitor sessions will not survive a restart")
		secret = generated
	}
	return middleware.NewSessionStore(secret), nil
}
