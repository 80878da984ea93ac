package controllers_fx

import (
	"go.uber.org/fx"
	"helpful/internal/api"
	"helpful/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewFeedbackController),
	fx.Provide(controllers.NewVoteController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(api.NewRouter))
