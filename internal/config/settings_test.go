package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestFromOptions_OverlaysDefaults(t *testing.T) {
	defaults := DefaultSettings(&Config{SiteName: "Docs", SiteURL: "https://docs.example"})

	s := FromOptions(defaults, map[string]string{
		OptionFeedbackSendEmail:   "on",
		OptionFeedbackReceivers:   "a@x.com, b@x.com",
		OptionWidgetAmount:        "-12",
		OptionFeedbackAfterPro:    "",
		OptionFeedbackSubject:     "New feedback",
		"some_unrelated_option":   "ignored",
		OptionFeedbackAfterContra: "off",
	})

	assert.True(t, s.FeedbackSendEmail)
	assert.Equal(t, "a@x.com, b@x.com", s.FeedbackReceivers)
	assert.Equal(t, 12, s.WidgetAmount)
	assert.False(t, s.FeedbackAfterPro)
	assert.False(t, s.FeedbackAfterContra)
	assert.Equal(t, "New feedback", s.FeedbackSubject)
	assert.Equal(t, "Docs", s.SiteName)
	assert.Equal(t, DefaultEmailContent, s.FeedbackEmailContent)
}

func TestFromOptions_InvalidWidgetAmountKeepsDefault(t *testing.T) {
	s := FromOptions(DefaultSettings(nil), map[string]string{OptionWidgetAmount: "lots"})
	assert.Equal(t, 5, s.WidgetAmount)
}

func TestToOptions_RoundTrip(t *testing.T) {
	s := DefaultSettings(nil)
	s.FeedbackSendEmail = true
	s.FeedbackGravatar = true
	s.WidgetAmount = 7
	s.BlocklistKeys = "casino\nviagra"

	back := FromOptions(Settings{}, s.ToOptions())
	assert.Equal(t, s, back)
}

func TestIsOn(t *testing.T) {
	for _, v := range []string{"on", "ON", "1", "true", " yes "} {
		assert.True(t, IsOn(v), v)
	}
	for _, v := range []string{"", "off", "0", "no", "nope"} {
		assert.False(t, IsOn(v), v)
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Settings{}.Location())
	assert.Equal(t, time.UTC, Settings{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "Europe/Berlin", Settings{Timezone: "Europe/Berlin"}.Location().String())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}
