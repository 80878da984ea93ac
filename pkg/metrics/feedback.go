// Package metrics provides Prometheus metrics for feedback intake and delivery
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeedbackMetrics contains Prometheus metrics for votes, feedback and
// notification delivery. A nil *FeedbackMetrics records nothing.
type FeedbackMetrics struct {
	registry *prometheus.Registry

	feedbackSavedTotal    prometheus.Counter
	feedbackRejectedTotal *prometheus.CounterVec
	emailsSentTotal       prometheus.Counter
	emailFailuresTotal    prometheus.Counter
	pushFailuresTotal     prometheus.Counter
	votesTotal            *prometheus.CounterVec
}

// NewFeedbackMetrics creates and registers new feedback metrics
func NewFeedbackMetrics(registry *prometheus.Registry) (*FeedbackMetrics, error) {
	m := &FeedbackMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *FeedbackMetrics) initMetrics() {
	m.feedbackSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "helpful_feedback_saved_total",
		Help: "Total number of stored feedback submissions",
	})
	m.feedbackRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpful_feedback_rejected_total",
			Help: "Total number of feedback submissions that were not saved",
		},
		[]string{"reason"}, // missing_post_id, empty_message, blocklisted, honeypot, database
	)
	m.emailsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "helpful_feedback_emails_sent_total",
		Help: "Total number of feedback notification emails handed to the transport",
	})
	m.emailFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "helpful_feedback_email_failures_total",
		Help: "Total number of feedback notification emails the transport rejected",
	})
	m.pushFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "helpful_feedback_push_failures_total",
		Help: "Total number of failed push notifications",
	})
	m.votesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpful_votes_total",
			Help: "Total number of votes cast",
		},
		[]string{"type"}, // pro, contra
	)
}

// Describe implements prometheus.Collector
func (m *FeedbackMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.feedbackSavedTotal.Describe(ch)
	m.feedbackRejectedTotal.Describe(ch)
	m.emailsSentTotal.Describe(ch)
	m.emailFailuresTotal.Describe(ch)
	m.pushFailuresTotal.Describe(ch)
	m.votesTotal.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *FeedbackMetrics) Collect(ch chan<- prometheus.Metric) {
	m.feedbackSavedTotal.Collect(ch)
	m.feedbackRejectedTotal.Collect(ch)
	m.emailsSentTotal.Collect(ch)
	m.emailFailuresTotal.Collect(ch)
	m.pushFailuresTotal.Collect(ch)
	m.votesTotal.Collect(ch)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *FeedbackMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *FeedbackMetrics) RecordFeedbackSaved() {
	if m == nil {
		return
	}
	m.feedbackSavedTotal.Inc()
}

func (m *FeedbackMetrics) RecordFeedbackRejected(reason string) {
	if m == nil {
		return
	}
	m.feedbackRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordEmail counts one delivery attempt.
func (m *FeedbackMetrics) RecordEmail(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.emailFailuresTotal.Inc()
		return
	}
	m.emailsSentTotal.Inc()
}

func (m *FeedbackMetrics) RecordPushFailure() {
	if m == nil {
		return
	}
	m.pushFailuresTotal.Inc()
}

func (m *FeedbackMetrics) RecordVote(voteType string) {
	if m == nil {
		return
	}
	m.votesTotal.WithLabelValues(voteType).Inc()
}
