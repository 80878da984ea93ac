package feedback_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"helpful/internal/config"
	"helpful/internal/repositories"
	"helpful/internal/services"
	"helpful/internal/templates"
	"helpful/pkg/memcache"
	"helpful/pkg/metrics"
)

var Module = fx.Provide(
	services.NewHooks,
	provideTemplates,
	provideFeedbackRepo,
	provideContentRepo,
	provideNotificationService,
	provideFeedbackService,
	provideFeedbackItemService,
	providePresentationService,
)

func provideTemplates(cfg *config.Config) (services.TemplateRenderer, error) {
	return templates.NewDefaultResolver(cfg.ThemeDir)
}

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func provideContentRepo(db *gorm.DB) repositories.ContentRepository {
	return repositories.NewContentRepository(db)
}

func provideNotificationService(
	contentRepo repositories.ContentRepository,
	mail services.IMailService,
	push services.PushServiceInterface,
	hooks *services.Hooks,
	m *metrics.FeedbackMetrics,
) services.NotificationServiceInterface {
	return services.NewNotificationService(contentRepo, mail, push, hooks, m)
}

func provideFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	notification services.NotificationServiceInterface,
	spam services.SpamServiceInterface,
	hooks *services.Hooks,
	m *metrics.FeedbackMetrics,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(feedbackRepo, notification, spam, hooks, m)
}

func provideFeedbackItemService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	contentRepo repositories.ContentRepository,
	hooks *services.Hooks,
) services.FeedbackItemServiceInterface {
	return services.NewFeedbackItemService(feedbackRepo, contentRepo, hooks)
}

func providePresentationService(
	voteRepo repositories.VoteRepository,
	contentRepo repositories.ContentRepository,
	renderer services.TemplateRenderer,
	nonces memcache.NonceStore,
	hooks *services.Hooks,
) services.PresentationServiceInterface {
	return services.NewPresentationService(voteRepo, contentRepo, renderer, nonces, hooks)
}
