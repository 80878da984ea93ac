package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/pkg/metrics"
	"helpful/pkg/utils"
)

type VoteServiceInterface interface {
	// CastVote records the first vote of actor on postID and returns the
	// markup to show afterwards. Repeated votes are ignored.
	CastVote(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint, status db_models.VoteStatus) (string, error)
}

type VoteService struct {
	voteRepo     repositories.VoteRepository
	presentation PresentationServiceInterface
	metrics      *metrics.FeedbackMetrics
}

func NewVoteService(
	voteRepo repositories.VoteRepository,
	presentation PresentationServiceInterface,
	m *metrics.FeedbackMetrics,
) VoteServiceInterface {
	return &VoteService{
		voteRepo:     voteRepo,
		presentation: presentation,
		metrics:      m,
	}
}

func (s *VoteService) CastVote(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint, status db_models.VoteStatus) (string, error) {
	if postID == 0 {
		return "", utils.ErrInvalidPostID
	}

	current, err := s.voteRepo.GetUserVoteStatus(ctx, actor, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading vote status")
		return "", utils.ErrDatabaseError
	}

	if current == db_models.VoteNone {
		vote := &db_models.Vote{
			Time:   time.Now().UTC(),
			User:   actor,
			PostID: postID,
		}
		switch status {
		case db_models.VotePro:
			vote.Pro = 1
		case db_models.VoteContra:
			vote.Contra = 1
		default:
			return "", utils.ErrInvalidVoteType
		}

		if err := s.voteRepo.InsertVote(ctx, vote); err != nil {
			log.Error().Stack().Err(err).Uint("post_id", postID).Msg("storing vote")
			return "", utils.ErrDatabaseError
		}
		s.metrics.RecordVote(string(status))
	}

	return s.presentation.AfterVote(ctx, settings, actor, viewer, postID, false)
}
