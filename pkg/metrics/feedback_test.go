package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackMetrics_Counters(t *testing.T) {
	m, err := NewFeedbackMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordFeedbackSaved()
	m.RecordFeedbackRejected("blocklisted")
	m.RecordFeedbackRejected("blocklisted")
	m.RecordEmail(nil)
	m.RecordEmail(errors.New("smtp down"))
	m.RecordVote("pro")

	assert.InDelta(t, 1, testutil.ToFloat64(m.feedbackSavedTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.feedbackRejectedTotal.WithLabelValues("blocklisted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.emailsSentTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.emailFailuresTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.votesTotal.WithLabelValues("pro")), 0)
}

func TestFeedbackMetrics_NilIsNoop(t *testing.T) {
	var m *FeedbackMetrics
	assert.NotPanics(t, func() {
		m.RecordFeedbackSaved()
		m.RecordFeedbackRejected("x")
		m.RecordEmail(nil)
		m.RecordPushFailure()
		m.RecordVote("contra")
	})
}

func TestFeedbackMetrics_Handler(t *testing.T) {
	m, err := NewFeedbackMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	m.RecordFeedbackSaved()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "helpful_feedback_saved_total 1")
}
