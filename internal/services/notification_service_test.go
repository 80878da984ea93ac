package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/pkg/hooks"
)

type notificationFixture struct {
	svc     NotificationServiceInterface
	mail    *captureMail
	push    *capturePush
	hooks   *Hooks
	content repositories.ContentRepository
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	db := newTestDB(t)
	f := &notificationFixture{
		mail:    &captureMail{},
		push:    &capturePush{},
		hooks:   NewHooks(),
		content: repositories.NewContentRepository(db),
	}
	f.svc = NewNotificationService(f.content, f.mail, f.push, f.hooks, nil)
	return f
}

func notifySettings() config.Settings {
	s := config.DefaultSettings(&config.Config{SiteName: "Docs", SiteURL: "https://docs.example"})
	s.FeedbackSendEmail = true
	s.FeedbackSubject = "New feedback"
	s.FeedbackEmailContent = "{type}|{name}|{email}|{message}|{post_url}|{post_title}|{blog_name}|{blog_url}"
	s.FeedbackReceivers = " a@x.com , b@x.com,"
	return s
}

func sampleFeedback(postID uint) *db_models.Feedback {
	return &db_models.Feedback{
		Time:    time.Now(),
		PostID:  postID,
		Contra:  1,
		Message: "Too short",
		Fields:  db_models.Fields{"name": "Ann", "email": "ann@x.com"},
	}
}

func TestNotification_ComposesAndSends(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{
		ID: 4, Title: "Intro", URL: "https://docs.example/intro", FeedbackReceivers: "b@x.com,\n c@x.com",
	}))

	f.svc.MaybeSend(context.Background(), notifySettings(), sampleFeedback(4))

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, sent[0].To)
	assert.Equal(t, "New feedback", sent[0].Subject)
	assert.Equal(t, "negative|Ann|ann@x.com|Too short|https://docs.example/intro|Intro|Docs|https://docs.example", sent[0].Body)
	assert.Equal(t, []string{"Content-Type: text/html; charset=UTF-8", "Reply-To: ann@x.com"}, sent[0].Headers)

	require.Len(t, f.push.titles, 1)
	assert.Equal(t, "New feedback", f.push.titles[0])
}

func TestNotification_PositiveWithoutEmailHasNoReplyTo(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 4, Title: "Intro"}))

	fb := sampleFeedback(4)
	fb.Contra, fb.Pro = 0, 1
	fb.Fields = db_models.Fields{}
	settings := notifySettings()
	settings.FeedbackEmailContent = "{type}:{name}"

	f.svc.MaybeSend(context.Background(), settings, fb)

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "positive:", sent[0].Body)
	assert.Equal(t, []string{"Content-Type: text/html; charset=UTF-8"}, sent[0].Headers)
}

func TestNotification_NoSend(t *testing.T) {
	cases := map[string]func(t *testing.T, f *notificationFixture, s *config.Settings){
		"disabled": func(t *testing.T, f *notificationFixture, s *config.Settings) {
			s.FeedbackSendEmail = false
		},
		"content missing": func(t *testing.T, f *notificationFixture, s *config.Settings) {
			require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 99, Title: "Other"}))
		},
		"no receivers": func(t *testing.T, f *notificationFixture, s *config.Settings) {
			s.FeedbackReceivers = " , "
			require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 4, Title: "Intro"}))
		},
		"receivers filtered away": func(t *testing.T, f *notificationFixture, s *config.Settings) {
			require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 4, Title: "Intro"}))
			f.hooks.EmailReceivers.Add(func([]string, *db_models.Feedback) []string { return nil })
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newNotificationFixture(t)
			settings := notifySettings()
			setup(t, f, &settings)

			f.svc.MaybeSend(context.Background(), settings, sampleFeedback(4))

			assert.Empty(t, f.mail.Sent())
			assert.Empty(t, f.push.titles)
		})
	}
}

func TestNotification_FiltersRunInOrder(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 4, Title: "Intro"}))

	var order []string
	f.hooks.EmailTags.Add(func(tags map[string]string, _ hooks.None) map[string]string {
		order = append(order, "tags")
		tags["{name}"] = "Filtered"
		return tags
	})
	f.hooks.EmailSubject.Add(func(v string, fb *db_models.Feedback) string {
		order = append(order, "subject")
		return v + " #" + fb.Message
	})
	f.hooks.EmailBody.Add(func(v string, _ *db_models.Feedback) string {
		order = append(order, "body")
		return "[" + v + "]"
	})
	f.hooks.EmailReceivers.Add(func(v []string, _ *db_models.Feedback) []string {
		order = append(order, "receivers")
		return append(v, "extra@x.com")
	})
	f.hooks.EmailHeaders.Add(func(v []string, _ *db_models.Feedback) []string {
		order = append(order, "headers")
		return append(v, "X-Helpful: 1")
	})

	settings := notifySettings()
	settings.FeedbackEmailContent = "{name}"
	f.svc.MaybeSend(context.Background(), settings, sampleFeedback(4))

	assert.Equal(t, []string{"tags", "subject", "body", "receivers", "headers"}, order)
	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New feedback #Too short", sent[0].Subject)
	assert.Equal(t, "[Filtered]", sent[0].Body)
	assert.Contains(t, sent[0].To, "extra@x.com")
	assert.Contains(t, sent[0].Headers, "X-Helpful: 1")
}

func TestNotification_TransportFailureIsSwallowed(t *testing.T) {
	f := newNotificationFixture(t)
	f.mail.err = errors.New("connection refused")
	require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 4, Title: "Intro"}))

	assert.NotPanics(t, func() {
		f.svc.MaybeSend(context.Background(), notifySettings(), sampleFeedback(4))
	})
	assert.Len(t, f.mail.Sent(), 1)
}

func TestMergeReceivers(t *testing.T) {
	assert.Equal(t, []string{"a@x", "b@x", "c@x"}, MergeReceivers("a@x, b@x", "b@x,c@x, a@x"))
	assert.Empty(t, MergeReceivers("", " ,, "))
}

func TestReplaceTags_SinglePass(t *testing.T) {
	out := ReplaceTags("{message} on {blog_name}", map[string]string{
		"{message}":   "I typed {blog_name}",
		"{blog_name}": "Docs",
	})
	assert.Equal(t, "I typed {blog_name} on Docs", out)
}
