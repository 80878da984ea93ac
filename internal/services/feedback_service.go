package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/pkg/metrics"
	"helpful/pkg/utils"
)

// FeedbackSubmission is the raw form post. Nil pointers mean the field was
// not sent at all.
type FeedbackSubmission struct {
	PostID  *string
	Message *string
	Type    *string
	UserID  string
	Fields  map[string]string
	Session map[string]string
}

// Identity is the authenticated account behind a request.
type Identity struct {
	AccountID string
	Name      string
	Email     string
	Role      string
}

type FeedbackServiceInterface interface {
	// InsertFeedback validates and stores a submission and returns the new
	// id. Rejections return 0 and an error wrapping utils.ErrFeedbackNotSaved.
	InsertFeedback(ctx context.Context, settings config.Settings, sub FeedbackSubmission, identity *Identity) (uint, error)
	CountFeedback(ctx context.Context, postID *uint) (int64, error)
}

type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	notification NotificationServiceInterface
	spam         SpamServiceInterface
	hooks        *Hooks
	metrics      *metrics.FeedbackMetrics
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	notification NotificationServiceInterface,
	spam SpamServiceInterface,
	hooks *Hooks,
	m *metrics.FeedbackMetrics,
) FeedbackServiceInterface {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		notification: notification,
		spam:         spam,
		hooks:        hooks,
		metrics:      m,
	}
}

var rejectionReasons = map[error]string{
	utils.ErrMissingPostID: "missing_post_id",
	utils.ErrEmptyMessage:  "empty_message",
	utils.ErrBlocklisted:   "blocklisted",
}

func (s *FeedbackService) reject(rule error) (uint, error) {
	reason := rejectionReasons[rule]
	log.Info().
		CallerSkipFrame(1).
		Str("reason", reason).
		Msgf("feedback was not saved because the %s", rule)
	s.metrics.RecordFeedbackRejected(reason)
	return 0, fmt.Errorf("%w: %w", utils.ErrFeedbackNotSaved, rule)
}

func (s *FeedbackService) InsertFeedback(ctx context.Context, settings config.Settings, sub FeedbackSubmission, identity *Identity) (uint, error) {
	if sub.PostID == nil {
		return s.reject(utils.ErrMissingPostID)
	}
	postID := utils.AbsInt(utils.SanitizeTextField(utils.Unslash(*sub.PostID)))

	if sub.Message == nil || strings.TrimSpace(*sub.Message) == "" {
		return s.reject(utils.ErrEmptyMessage)
	}

	if s.spam.IsBlocklisted(ctx, settings, *sub.Message) {
		return s.reject(utils.ErrBlocklisted)
	}

	var fields map[string]string
	if sub.Fields != nil {
		fields = make(map[string]string, len(sub.Fields))
		for key, value := range sub.Fields {
			fields[key] = utils.SanitizeTextField(value)
		}
		session := sub.Session
		if session == nil {
			session = map[string]string{}
		}
		fields = s.hooks.SubmitFields.Apply(fields, session)
	}

	if identity != nil {
		fields = map[string]string{
			"name":  identity.Name,
			"email": identity.Email,
		}
		fields = s.hooks.SubmitFields.Apply(fields, nil)
	}

	message := utils.SanitizeTextarea(utils.StripAllTags(utils.Unslash(*sub.Message)))
	message = utils.Unslash(message)
	message = s.hooks.SubmitMessage.Apply(message, noneArg)
	if strings.TrimSpace(message) == "" {
		return s.reject(utils.ErrEmptyMessage)
	}

	var pro, contra int
	if sub.Type != nil {
		switch utils.SanitizeTextField(utils.Unslash(*sub.Type)) {
		case "pro":
			pro = 1
		case "contra":
			contra = 1
		}
	}

	feedback := &db_models.Feedback{
		Time:    time.Now().UTC(),
		User:    html.EscapeString(sub.UserID),
		Pro:     pro,
		Contra:  contra,
		PostID:  postID,
		Message: message,
		Fields:  db_models.Fields(fields),
	}
	if feedback.Fields == nil {
		feedback.Fields = db_models.Fields{}
	}

	s.notification.MaybeSend(ctx, settings, feedback)

	id, err := s.feedbackRepo.CreateFeedback(ctx, feedback)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("storing feedback")
		s.metrics.RecordFeedbackRejected("database")
		return 0, fmt.Errorf("%w: %w", utils.ErrFeedbackNotSaved, utils.ErrDatabaseError)
	}

	s.metrics.RecordFeedbackSaved()
	log.Debug().Uint("id", id).Uint("post_id", postID).Msg("feedback saved")
	return id, nil
}

// CountFeedback counts every submission, or only those of postID when set.
func (s *FeedbackService) CountFeedback(ctx context.Context, postID *uint) (int64, error) {
	n, err := s.feedbackRepo.CountFeedback(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("counting feedback")
		return 0, utils.ErrDatabaseError
	}
	return n, nil
}
