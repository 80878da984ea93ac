package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/fx"
	"helpful/internal/api/controllers"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/templates"
	"helpful/pkg/metrics"
	"helpful/pkg/middleware"
)

type RouterParams struct {
	fx.In

	Config             *config.Config
	Sessions           sessions.Store
	Metrics            *metrics.FeedbackMetrics `optional:"true"`
	FeedbackController *controllers.FeedbackController
	VoteController     *controllers.VoteController
	AdminController    *controllers.AdminController
	AccountController  *controllers.AccountController
}

func NewRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.AccessLogMiddleware())

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	secret := []byte(p.Config.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(templates.AvatarPath, p.FeedbackController.Avatar)
	if p.Metrics != nil {
		r.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	}

	public := r.Group("/")
	public.Use(middleware.OptionalJWTMiddleware(secret), middleware.ActorMiddleware(p.Sessions))
	public.GET("/widget", p.FeedbackController.Widget)
	public.GET("/feedback/form", p.FeedbackController.FeedbackForm)

	limited := public.Group("/")
	limited.Use(middleware.RateLimitMiddleware(p.Config.RateLimitPerMinute))
	limited.POST("/feedback", p.FeedbackController.SubmitFeedback)
	limited.POST("/votes", p.VoteController.CastVote)

	accounts := r.Group("/accounts")
	accounts.Use(middleware.RateLimitMiddleware(p.Config.RateLimitPerMinute))
	accounts.POST("/register", p.AccountController.Register)
	accounts.POST("/login", p.AccountController.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(secret), middleware.RoleMiddleware(db_models.RoleAdmin))
	admin.GET("/feedback", p.FeedbackController.ListFeedback)
	admin.GET("/feedback/count", p.FeedbackController.CountFeedback)
	admin.GET("/contents/:id/metabox", p.AdminController.GetMetaBox)
	admin.POST("/contents/:id/metabox", p.AdminController.SaveMetaBox)
	admin.PUT("/contents/:id", p.AdminController.UpsertContent)
	admin.GET("/settings", p.AdminController.GetSettings)
	admin.PUT("/settings", p.AdminController.UpdateSettings)
}
