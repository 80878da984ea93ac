package services

import (
	"bytes"
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/models/request_models"
	"helpful/internal/models/response_models"
	"helpful/internal/repositories"
	"helpful/internal/templates"
	"helpful/pkg/utils"
)

type AdminServiceInterface interface {
	MetaBox(ctx context.Context, postID uint) (*response_models.MetaBox, error)
	RenderMetaBox(ctx context.Context, postID uint) (string, error)
	// SaveMetaBox applies the meta box form. Resetting removes the votes of
	// the content; stored feedback is kept.
	SaveMetaBox(ctx context.Context, postID uint, req request_models.MetaBoxRequest) error
	UpsertContent(ctx context.Context, postID uint, req request_models.UpsertContentRequest) (*response_models.ContentResponse, error)
}

type AdminService struct {
	voteRepo    repositories.VoteRepository
	contentRepo repositories.ContentRepository
	transactor  repositories.Transactor
	templates   TemplateRenderer
	titler      cases.Caser
}

func NewAdminService(
	voteRepo repositories.VoteRepository,
	contentRepo repositories.ContentRepository,
	transactor repositories.Transactor,
	renderer TemplateRenderer,
) AdminServiceInterface {
	return &AdminService{
		voteRepo:    voteRepo,
		contentRepo: contentRepo,
		transactor:  transactor,
		templates:   renderer,
		titler:      cases.Title(language.English),
	}
}

type metaBoxView struct {
	response_models.MetaBox
	ProLabel    string
	ContraLabel string
}

func percentOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

func (s *AdminService) MetaBox(ctx context.Context, postID uint) (*response_models.MetaBox, error) {
	pro, contra, err := s.voteRepo.CountVotes(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("counting votes")
		return nil, utils.ErrDatabaseError
	}

	content, err := s.contentRepo.FindByID(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading content")
		return nil, utils.ErrDatabaseError
	}

	return &response_models.MetaBox{
		PostID:        postID,
		Pro:           pro,
		Contra:        contra,
		ProPercent:    percentOf(pro, pro+contra),
		ContraPercent: percentOf(contra, pro+contra),
		Hide:          content != nil && content.HideHelpful,
	}, nil
}

func (s *AdminService) RenderMetaBox(ctx context.Context, postID uint) (string, error) {
	box, err := s.MetaBox(ctx, postID)
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	err = s.templates.Render(&b, templates.MetaBox, metaBoxView{
		MetaBox:     *box,
		ProLabel:    s.titler.String(string(db_models.VotePro)),
		ContraLabel: s.titler.String(string(db_models.VoteContra)),
	})
	if err != nil {
		log.Error().Err(err).Str("template", templates.MetaBox).Msg("rendering meta box")
		return "", err
	}
	return b.String(), nil
}

// SaveMetaBox runs the reset and the hide flag update in one transaction, so a
// failed flag update leaves the votes in place.
func (s *AdminService) SaveMetaBox(ctx context.Context, postID uint, req request_models.MetaBoxRequest) error {
	hide := config.IsOn(req.HideOnPost)

	var removed int64
	err := s.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		voteRepo := s.voteRepo.WithTx(tx)
		contentRepo := s.contentRepo.WithTx(tx)

		if config.IsOn(req.RemoveData) {
			n, err := voteRepo.DeleteVotesByPost(ctx, postID)
			if err != nil {
				return errors.Wrap(err, "resetting votes")
			}
			removed = n
		}

		content, err := contentRepo.FindByID(ctx, postID)
		if err != nil {
			return errors.Wrap(err, "loading content")
		}
		if content == nil {
			if !hide {
				return nil
			}
			if err := contentRepo.Upsert(ctx, &db_models.Content{ID: postID}); err != nil {
				return errors.Wrap(err, "creating content")
			}
		}

		return errors.Wrap(contentRepo.SetHideHelpful(ctx, postID, hide), "saving hide flag")
	})
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("saving meta box")
		return utils.ErrDatabaseError
	}

	if config.IsOn(req.RemoveData) {
		log.Info().Uint("post_id", postID).Int64("votes", removed).Msg("votes reset")
	}
	return nil
}

func (s *AdminService) UpsertContent(ctx context.Context, postID uint, req request_models.UpsertContentRequest) (*response_models.ContentResponse, error) {
	if postID == 0 {
		return nil, utils.ErrInvalidPostID
	}

	existing, err := s.contentRepo.FindByID(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading content")
		return nil, utils.ErrDatabaseError
	}

	content := &db_models.Content{ID: postID, Title: req.Title, URL: req.URL}
	if existing != nil {
		content.FeedbackReceivers = existing.FeedbackReceivers
		content.HideFeedback = existing.HideFeedback
		content.HideHelpful = existing.HideHelpful
	}
	if req.FeedbackReceivers != nil {
		content.FeedbackReceivers = *req.FeedbackReceivers
	}
	if req.HideFeedback != nil {
		content.HideFeedback = *req.HideFeedback
	}

	if err := s.contentRepo.Upsert(ctx, content); err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("saving content")
		return nil, utils.ErrDatabaseError
	}
	return ToContentResponse(content), nil
}
