package admin_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"helpful/internal/config"
	"helpful/internal/repositories"
	"helpful/internal/services"
)

var Module = fx.Provide(
	provideOptionRepo, provideTransactor, provideSettingsService, provideAdminService)

func provideOptionRepo(db *gorm.DB) repositories.OptionRepository {
	return repositories.NewOptionRepository(db)
}

func provideTransactor(db *gorm.DB) repositories.Transactor {
	return repositories.NewTransactor(db)
}

func provideSettingsService(optionRepo repositories.OptionRepository, cfg *config.Config) services.SettingsServiceInterface {
	return services.NewSettingsService(optionRepo, cfg)
}

func provideAdminService(
	voteRepo repositories.VoteRepository,
	contentRepo repositories.ContentRepository,
	transactor repositories.Transactor,
	renderer services.TemplateRenderer,
) services.AdminServiceInterface {
	return services.NewAdminService(voteRepo, contentRepo, transactor, renderer)
}
