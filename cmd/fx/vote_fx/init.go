package vote_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"helpful/internal/repositories"
	"helpful/internal/services"
	"helpful/pkg/metrics"
)

var Module = fx.Provide(
	provideVoteRepo, provideVoteService)

func provideVoteRepo(db *gorm.DB) repositories.VoteRepository {
	return repositories.NewVoteRepository(db)
}

func provideVoteService(
	voteRepo repositories.VoteRepository,
	presentation services.PresentationServiceInterface,
	m *metrics.FeedbackMetrics,
) services.VoteServiceInterface {
	return services.NewVoteService(voteRepo, presentation, m)
}
