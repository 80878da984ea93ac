package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/internal/templates"
	"helpful/pkg/memcache"
	"helpful/pkg/utils"
)

// Nonce actions.
const (
	FeedbackNonceAction = "helpful_feedback_nonce"
	VoteNonceAction     = "helpful_vote_nonce"
)

const defaultFeedbackText = "Thank you very much. Please write us your opinion, so that we can improve ourselves."

// TemplateRenderer renders a named template, see templates.Resolver.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data any) error
}

type PresentationServiceInterface interface {
	// AfterVote renders what a visitor sees once they voted: a static
	// message or the feedback form. showFeedback forces the form. A non-nil
	// viewer prefills the name and email fields.
	AfterVote(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint, showFeedback bool) (string, error)
	// Widget renders the vote buttons, or the AfterVote view when actor
	// already voted.
	Widget(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint) (string, error)
}

type PresentationService struct {
	voteRepo    repositories.VoteRepository
	contentRepo repositories.ContentRepository
	templates   TemplateRenderer
	nonces      memcache.NonceStore
	hooks       *Hooks
}

func NewPresentationService(
	voteRepo repositories.VoteRepository,
	contentRepo repositories.ContentRepository,
	renderer TemplateRenderer,
	nonces memcache.NonceStore,
	hooks *Hooks,
) PresentationServiceInterface {
	return &PresentationService{
		voteRepo:    voteRepo,
		contentRepo: contentRepo,
		templates:   renderer,
		nonces:      nonces,
		hooks:       hooks,
	}
}

// FeedbackFormData is passed to the feedback.html template.
type FeedbackFormData struct {
	FeedbackText template.HTML
	PostID       uint
	Type         string
	Name         string
	Email        string
}

type WidgetData struct {
	PostID      uint
	Heading     template.HTML
	Pro         template.HTML
	Contra      template.HTML
	ProCount    int64
	ContraCount int64
	Nonce       string
}

func (s *PresentationService) AfterVote(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint, showFeedback bool) (string, error) {
	feedbackText := defaultFeedbackText

	content, err := s.contentRepo.FindByID(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading content")
		return "", utils.ErrDatabaseError
	}
	hideFeedback := content != nil && content.HideFeedback

	status, err := s.voteRepo.GetUserVoteStatus(ctx, actor, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading vote status")
		return "", utils.ErrDatabaseError
	}

	voteType := ""
	switch status {
	case db_models.VotePro:
		voteType = string(status)
		feedbackText = settings.FeedbackMessagePro
		if !showFeedback && (!settings.FeedbackAfterPro || hideFeedback) {
			return settings.AfterPro, nil
		}
	case db_models.VoteContra:
		voteType = string(status)
		feedbackText = settings.FeedbackMessageContra
		if !showFeedback && (!settings.FeedbackAfterContra || hideFeedback) {
			return settings.AfterContra, nil
		}
	}

	if showFeedback {
		feedbackText = settings.FeedbackMessageVoted
	}
	if strings.TrimSpace(feedbackText) == "" {
		feedbackText = ""
	}

	var b bytes.Buffer
	s.hooks.BeforeFeedbackForm.Do(&b)

	b.WriteString(`<form class="helpful-feedback-form">`)
	fmt.Fprintf(&b, `<input type="hidden" name="user_id" value="%s">`, html.EscapeString(actor))
	fmt.Fprintf(&b, `<input type="hidden" name="action" value="%s">`, "helpful_save_feedback")
	fmt.Fprintf(&b, `<input type="hidden" name="post_id" value="%d">`, postID)
	fmt.Fprintf(&b, `<input type="hidden" name="type" value="%s">`, voteType)

	if s.hooks.SpamProtectionEnabled() {
		b.WriteString(`<input type="text" name="website" id="website" style="display:none;">`)
	}

	fmt.Fprintf(&b, `<input type="hidden" id="_wpnonce" name="_wpnonce" value="%s">`,
		html.EscapeString(s.nonces.Create(FeedbackNonceAction, actor)))

	data := FeedbackFormData{
		FeedbackText: template.HTML(feedbackText),
		PostID:       postID,
		Type:         voteType,
	}
	if viewer != nil {
		data.Name = viewer.Name
		data.Email = viewer.Email
	}
	err = s.templates.Render(&b, templates.Feedback, data)
	if err != nil {
		log.Error().Err(err).Str("template", templates.Feedback).Msg("rendering feedback form")
		return "", err
	}

	b.WriteString(`</form>`)
	s.hooks.AfterFeedbackForm.Do(&b)

	out := b.String()
	if showFeedback {
		out = `<div class="helpful helpful-prevent-form"><div class="helpful-content" role="alert">` + out + `</div></div>`
	}
	return out, nil
}

func (s *PresentationService) Widget(ctx context.Context, settings config.Settings, actor string, viewer *Identity, postID uint) (string, error) {
	content, err := s.contentRepo.FindByID(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading content")
		return "", utils.ErrDatabaseError
	}
	if content != nil && content.HideHelpful {
		return "", nil
	}

	status, err := s.voteRepo.GetUserVoteStatus(ctx, actor, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("loading vote status")
		return "", utils.ErrDatabaseError
	}
	if status != db_models.VoteNone {
		return s.AfterVote(ctx, settings, actor, viewer, postID, false)
	}

	pro, contra, err := s.voteRepo.CountVotes(ctx, postID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", postID).Msg("counting votes")
		return "", utils.ErrDatabaseError
	}

	var b bytes.Buffer
	err = s.templates.Render(&b, templates.Widget, WidgetData{
		PostID:      postID,
		Heading:     template.HTML(settings.Heading),
		Pro:         template.HTML(settings.Pro),
		Contra:      template.HTML(settings.Contra),
		ProCount:    pro,
		ContraCount: contra,
		Nonce:       s.nonces.Create(VoteNonceAction, actor),
	})
	if err != nil {
		log.Error().Err(err).Str("template", templates.Widget).Msg("rendering widget")
		return "", err
	}
	return b.String(), nil
}
