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
	"helpful/pkg/utils"
)

type feedbackFixture struct {
	svc      FeedbackServiceInterface
	repo     repositories.FeedbackRepositoryInterface
	content  repositories.ContentRepository
	mail     *captureMail
	hooks    *Hooks
	settings config.Settings
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	db := newTestDB(t)
	f := &feedbackFixture{
		repo:    repositories.NewFeedbackRepository(db),
		content: repositories.NewContentRepository(db),
		mail:    &captureMail{},
		hooks:   NewHooks(),
	}
	notification := NewNotificationService(f.content, f.mail, nil, f.hooks, nil)
	f.svc = NewFeedbackService(f.repo, notification, NewSpamService(nil), f.hooks, nil)

	f.settings = config.DefaultSettings(&config.Config{SiteName: "Docs", SiteURL: "https://docs"})
	f.settings.FeedbackSendEmail = true
	f.settings.FeedbackReceivers = "admin@x.com"
	f.settings.BlocklistKeys = "casino"
	require.NoError(t, f.content.Upsert(context.Background(), &db_models.Content{ID: 12, Title: "Guide"}))
	return f
}

func ptr(s string) *string { return &s }

func (f *feedbackFixture) stored(t *testing.T) []db_models.Feedback {
	t.Helper()
	items, err := f.repo.ListFeedback(context.Background(), 100)
	require.NoError(t, err)
	return items
}

func TestInsertFeedback_Rejections(t *testing.T) {
	cases := []struct {
		name string
		sub  FeedbackSubmission
		rule error
	}{
		{"missing post id", FeedbackSubmission{Message: ptr("hello")}, utils.ErrMissingPostID},
		{"missing message", FeedbackSubmission{PostID: ptr("12")}, utils.ErrEmptyMessage},
		{"blank message", FeedbackSubmission{PostID: ptr("12"), Message: ptr(" \n\t ")}, utils.ErrEmptyMessage},
		{"markup only", FeedbackSubmission{PostID: ptr("12"), Message: ptr("<script>alert(1)</script>")}, utils.ErrEmptyMessage},
		{"blocklisted", FeedbackSubmission{PostID: ptr("12"), Message: ptr("Visit my CASINO")}, utils.ErrBlocklisted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFeedbackFixture(t)

			id, err := f.svc.InsertFeedback(context.Background(), f.settings, tc.sub, nil)

			assert.Zero(t, id)
			assert.ErrorIs(t, err, utils.ErrFeedbackNotSaved)
			assert.ErrorIs(t, err, tc.rule)
			assert.Empty(t, f.stored(t))
			assert.Empty(t, f.mail.Sent())
		})
	}
}

func TestInsertFeedback_TypeMapping(t *testing.T) {
	cases := []struct {
		typ         *string
		pro, contra int
	}{
		{ptr("pro"), 1, 0},
		{ptr("contra"), 0, 1},
		{ptr("maybe"), 0, 0},
		{nil, 0, 0},
	}

	for _, tc := range cases {
		f := newFeedbackFixture(t)
		id, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{
			PostID: ptr("12"), Message: ptr("useful"), Type: tc.typ,
		}, nil)
		require.NoError(t, err)
		require.NotZero(t, id)

		items := f.stored(t)
		require.Len(t, items, 1)
		assert.Equal(t, tc.pro, items[0].Pro)
		assert.Equal(t, tc.contra, items[0].Contra)
	}
}

func TestInsertFeedback_SanitizesAndRoundTripsFields(t *testing.T) {
	f := newFeedbackFixture(t)

	var gotSession map[string]string
	f.hooks.SubmitFields.Add(func(fields, session map[string]string) map[string]string {
		gotSession = session
		return fields
	})

	_, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{
		PostID:  ptr("-12abc"),
		Message: ptr("Line one<br>\nIt\\'s <b>fine</b>"),
		UserID:  `<anon"1>`,
		Fields:  map[string]string{"name": "<i>A</i>", "email": "a@x.com"},
		Session: map[string]string{"token": "t"},
	}, nil)
	require.NoError(t, err)

	items := f.stored(t)
	require.Len(t, items, 1)
	got := items[0]
	assert.EqualValues(t, 12, got.PostID)
	assert.Equal(t, "Line one\nIt's fine", got.Message)
	assert.Equal(t, "&lt;anon&#34;1&gt;", got.User)
	assert.Equal(t, db_models.Fields{"name": "A", "email": "a@x.com"}, got.Fields)
	assert.Equal(t, map[string]string{"token": "t"}, gotSession)
}

func TestInsertFeedback_AuthenticatedReplacesFields(t *testing.T) {
	f := newFeedbackFixture(t)

	var calls int
	var lastSession map[string]string
	f.hooks.SubmitFields.Add(func(fields, session map[string]string) map[string]string {
		calls++
		lastSession = session
		return fields
	})

	_, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{
		PostID:  ptr("12"),
		Message: ptr("hi"),
		Fields:  map[string]string{"name": "Spoofed", "email": "spoof@x.com", "company": "ACME"},
		Session: map[string]string{"token": "t"},
	}, &Identity{Name: "Real Name", Email: "real@x.com"})
	require.NoError(t, err)

	items := f.stored(t)
	require.Len(t, items, 1)
	assert.Equal(t, db_models.Fields{"name": "Real Name", "email": "real@x.com"}, items[0].Fields)
	assert.Equal(t, 2, calls)
	assert.Nil(t, lastSession)
}

func TestInsertFeedback_NewestFirstUnderAnyTimezone(t *testing.T) {
	f := newFeedbackFixture(t)
	_, err := f.repo.CreateFeedback(context.Background(), &db_models.Feedback{
		Time: time.Now().UTC().Add(-time.Minute), PostID: 12, Message: "earlier",
	})
	require.NoError(t, err)

	f.settings.Timezone = "Pacific/Honolulu"
	id, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{
		PostID: ptr("12"), Message: ptr("latest"),
	}, nil)
	require.NoError(t, err)

	items := f.stored(t)
	require.Len(t, items, 2)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "latest", items[0].Message)
}

func TestInsertFeedback_MessageFilter(t *testing.T) {
	f := newFeedbackFixture(t)
	f.hooks.SubmitMessage.Add(func(m string, _ hooks.None) string { return m })
	f.hooks.SubmitMessage.Add(func(m string, _ hooks.None) string { return m + "!" })

	_, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{PostID: ptr("12"), Message: ptr("ok")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok!", f.stored(t)[0].Message)
}

func TestInsertFeedback_EmailComposedBeforeInsert(t *testing.T) {
	f := newFeedbackFixture(t)

	var storedAtSend int
	recorder := &sendHook{fn: func() {
		storedAtSend = len(f.stored(t))
	}}
	notification := NewNotificationService(f.content, recorder, nil, f.hooks, nil)
	svc := NewFeedbackService(f.repo, notification, NewSpamService(nil), f.hooks, nil)

	id, err := svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{PostID: ptr("12"), Message: ptr("hi")}, nil)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, recorder.calls)
	assert.Zero(t, storedAtSend)
	assert.Len(t, f.stored(t), 1)
}

func TestInsertFeedback_MailFailureStillPersists(t *testing.T) {
	f := newFeedbackFixture(t)
	f.mail.err = errors.New("smtp down")

	id, err := f.svc.InsertFeedback(context.Background(), f.settings, FeedbackSubmission{PostID: ptr("12"), Message: ptr("hi")}, nil)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, f.mail.Sent(), 1)
}

func TestCountFeedback_ScopedToContent(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.InsertFeedback(ctx, f.settings, FeedbackSubmission{PostID: ptr("12"), Message: ptr("x")}, nil)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := f.svc.InsertFeedback(ctx, f.settings, FeedbackSubmission{PostID: ptr("13"), Message: ptr("y")}, nil)
		require.NoError(t, err)
	}

	post := uint(12)
	n, err := f.svc.CountFeedback(ctx, &post)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err := f.svc.CountFeedback(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 5, all)
}

type sendHook struct {
	calls int
	fn    func()
}

func (s *sendHook) Send(context.Context, Mail) error {
	s.calls++
	s.fn()
	return nil
}
