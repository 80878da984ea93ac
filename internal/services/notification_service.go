package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/pkg/metrics"
	"helpful/pkg/utils"
)

type NotificationServiceInterface interface {
	// MaybeSend emails the configured receivers about a new submission.
	// Failures are logged and never returned.
	MaybeSend(ctx context.Context, settings config.Settings, feedback *db_models.Feedback)
}

type NotificationService struct {
	contentRepo repositories.ContentRepository
	mail        IMailService
	push        PushServiceInterface
	hooks       *Hooks
	metrics     *metrics.FeedbackMetrics
}

func NewNotificationService(
	contentRepo repositories.ContentRepository,
	mail IMailService,
	push PushServiceInterface,
	hooks *Hooks,
	m *metrics.FeedbackMetrics,
) NotificationServiceInterface {
	return &NotificationService{
		contentRepo: contentRepo,
		mail:        mail,
		push:        push,
		hooks:       hooks,
		metrics:     m,
	}
}

func (s *NotificationService) MaybeSend(ctx context.Context, settings config.Settings, feedback *db_models.Feedback) {
	mail, ok := s.compose(ctx, settings, feedback)
	if !ok {
		return
	}

	err := s.mail.Send(ctx, *mail)
	s.metrics.RecordEmail(err)
	if err != nil {
		log.Warn().Err(err).Uint("post_id", feedback.PostID).Msg("email could not be sent")
	}

	if s.push != nil && s.push.Enabled() {
		if err := s.push.Push(ctx, mail.Subject, mail.Body); err != nil {
			s.metrics.RecordPushFailure()
			log.Warn().Err(err).Uint("post_id", feedback.PostID).Msg("push notification failed")
		}
	}
}

// compose builds the notification mail. ok is false when nothing should be
// sent.
func (s *NotificationService) compose(ctx context.Context, settings config.Settings, feedback *db_models.Feedback) (*Mail, bool) {
	if !settings.FeedbackSendEmail {
		return nil, false
	}

	content, err := s.contentRepo.FindByID(ctx, feedback.PostID)
	if err != nil {
		log.Error().Stack().Err(err).Uint("post_id", feedback.PostID).Msg("loading content for notification")
		return nil, false
	}
	if content == nil {
		return nil, false
	}

	feedbackType := "positive"
	if feedback.Contra == 1 {
		feedbackType = "negative"
	}

	tags := map[string]string{
		"{type}":       feedbackType,
		"{name}":       feedback.Fields.Get("name"),
		"{email}":      feedback.Fields.Get("email"),
		"{message}":    feedback.Message,
		"{post_url}":   content.URL,
		"{post_title}": content.Title,
		"{blog_name}":  settings.SiteName,
		"{blog_url}":   settings.SiteURL,
	}
	tags = s.hooks.EmailTags.Apply(tags, noneArg)
	body := ReplaceTags(settings.FeedbackEmailContent, tags)

	receivers := MergeReceivers(settings.FeedbackReceivers, content.FeedbackReceivers)
	if len(receivers) == 0 {
		return nil, false
	}

	headers := []string{"Content-Type: text/html; charset=UTF-8"}
	if email := feedback.Fields.Get("email"); email != "" {
		headers = append(headers, fmt.Sprintf("Reply-To: %s", email))
	}

	subject := s.hooks.EmailSubject.Apply(settings.FeedbackSubject, feedback)
	body = s.hooks.EmailBody.Apply(body, feedback)
	receivers = s.hooks.EmailReceivers.Apply(receivers, feedback)
	headers = s.hooks.EmailHeaders.Apply(headers, feedback)

	if len(receivers) == 0 {
		return nil, false
	}

	return &Mail{
		To:      receivers,
		Subject: subject,
		Body:    body,
		Headers: headers,
	}, true
}

// ReplaceTags substitutes every literal placeholder in one pass.
func ReplaceTags(template string, tags map[string]string) string {
	if len(tags) == 0 {
		return template
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, tags[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// MergeReceivers splits comma separated lists in order, dropping blanks and
// duplicates.
func MergeReceivers(lists ...string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, addr := range strings.Split(utils.TrimAll(list), ",") {
			if addr == "" {
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}
