package config_fx

import (
	"go.uber.org/fx"
	"helpful/internal/config"
	"helpful/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Invoke(configureLogger),
)

func configureLogger(cfg *config.Config) {
	logger.Configure(cfg.LogLevel, cfg.LogFile)
}
