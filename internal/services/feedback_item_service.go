package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/models/response_models"
	"helpful/internal/repositories"
	"helpful/internal/templates"
	"helpful/pkg/utils"
)

const (
	DefaultAvatarSize = 55
	anonymousName     = "Anonymous"

	// noAvatarMarkup uses %1$s for the image url and %2$s for the size.
	noAvatarMarkup = `<img src="%1$s" height="%2$s" width="%2$s" alt="no avatar">`
)

type FeedbackItemServiceInterface interface {
	// Items returns the newest submissions prepared for display. A nil limit
	// uses the configured widget amount.
	Items(ctx context.Context, settings config.Settings, limit *int) ([]response_models.FeedbackItem, error)
	Avatar(settings config.Settings, email string, size int) string
}

type FeedbackItemService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	contentRepo  repositories.ContentRepository
	hooks        *Hooks
}

func NewFeedbackItemService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	contentRepo repositories.ContentRepository,
	hooks *Hooks,
) FeedbackItemServiceInterface {
	return &FeedbackItemService{
		feedbackRepo: feedbackRepo,
		contentRepo:  contentRepo,
		hooks:        hooks,
	}
}

func (s *FeedbackItemService) Items(ctx context.Context, settings config.Settings, limit *int) ([]response_models.FeedbackItem, error) {
	n := settings.WidgetAmount
	if limit != nil {
		n = *limit
	}

	entries, err := s.feedbackRepo.ListFeedback(ctx, n)
	if err != nil {
		log.Error().Stack().Err(err).Msg("listing feedback")
		return nil, utils.ErrDatabaseError
	}

	now := time.Now()
	loc := settings.Location()
	contents := map[uint]*response_models.ContentResponse{}
	items := make([]response_models.FeedbackItem, 0, len(entries))

	for _, entry := range entries {
		post, ok := contents[entry.PostID]
		if !ok {
			content, err := s.contentRepo.FindByID(ctx, entry.PostID)
			if err != nil {
				log.Error().Stack().Err(err).Uint("post_id", entry.PostID).Msg("loading content")
				return nil, utils.ErrDatabaseError
			}
			post = ToContentResponse(content)
			contents[entry.PostID] = post
		}

		item := response_models.FeedbackItem{
			ID:      entry.ID,
			Name:    anonymousName,
			Message: utils.NL2BR(entry.Message),
			Pro:     entry.Pro,
			Contra:  entry.Contra,
			Post:    post,
			Time:    utils.SubmittedAgo(entry.Time, now),
			Date:    utils.InLocation(entry.Time, loc).Format(utils.DisplayTimeLayout),
			Avatar:  s.Avatar(settings, "", DefaultAvatarSize),
		}

		if len(entry.Fields) > 0 {
			item.Fields = make(map[string]string, len(entry.Fields))
			for k, v := range entry.Fields {
				item.Fields[k] = v
			}
		}
		if email := entry.Fields.Get("email"); email != "" {
			item.Avatar = s.Avatar(settings, email, DefaultAvatarSize)
		}
		if name := entry.Fields.Get("name"); name != "" {
			item.Name = name
		}

		items = append(items, s.hooks.AdminFeedbackItem.Apply(item, entry))
	}
	return items, nil
}

// Avatar returns image markup for email. Gravatar is used only when enabled
// and an email is known.
func (s *FeedbackItemService) Avatar(settings config.Settings, email string, size int) string {
	defaultURL := strings.TrimRight(settings.SiteURL, "/") + templates.AvatarPath

	if settings.FeedbackGravatar && email != "" {
		src := GravatarURL(email, size, defaultURL)
		return fmt.Sprintf(`<img alt="" src="%s" class="avatar avatar-%d photo" height="%d" width="%d">`, html.EscapeString(src), size, size, size)
	}

	markup := s.hooks.FeedbackNoAvatar.Apply(noAvatarMarkup, noneArg)
	return strings.NewReplacer("%1$s", defaultURL, "%2$s", strconv.Itoa(size)).Replace(markup)
}

func GravatarURL(email string, size int, fallback string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", strconv.Itoa(size))
	if fallback != "" {
		q.Set("d", fallback)
	}
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

func ToContentResponse(content *db_models.Content) *response_models.ContentResponse {
	if content == nil {
		return nil
	}
	return &response_models.ContentResponse{
		ID:                content.ID,
		Title:             content.Title,
		URL:               content.URL,
		FeedbackReceivers: content.FeedbackReceivers,
		HideFeedback:      content.HideFeedback,
		HideHelpful:       content.HideHelpful,
	}
}
