package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"helpful/cmd/fx/account_fx"
	"helpful/cmd/fx/admin_fx"
	"helpful/cmd/fx/config_fx"
	"helpful/cmd/fx/controllers_fx"
	"helpful/cmd/fx/db_fx"
	"helpful/cmd/fx/feedback_fx"
	"helpful/cmd/fx/mail_fx"
	"helpful/cmd/fx/memcache_fx"
	"helpful/cmd/fx/metrics_fx"
	"helpful/cmd/fx/moderation_fx"
	"helpful/cmd/fx/vote_fx"
	"helpful/internal/config"
	"helpful/internal/infra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	app := fx.New(appOptions())
	app.Run()
	return app.Err()
}

func appOptions() fx.Option {
	return fx.Options(
		fx.WithLogger(newFxLogger),
		config_fx.Module,
		db_fx.Module,
		metrics_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		moderation_fx.Module,
		feedback_fx.Module,
		vote_fx.Module,
		admin_fx.Module,
		account_fx.Module,
		controllers_fx.Module,

		fx.Invoke(migrateOnStart),
		fx.Invoke(StartServer),
	)
}

func migrateOnStart(db *gorm.DB) error {
	return infra.Migrate(db)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
