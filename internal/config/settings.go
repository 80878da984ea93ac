package config

import (
	"strconv"
	"strings"
	"time"
)

// Option keys as stored in the helpful_options table.
const (
	OptionFeedbackSendEmail     = "helpful_feedback_send_email"
	OptionFeedbackSubject       = "helpful_feedback_subject"
	OptionFeedbackEmailContent  = "helpful_feedback_email_content"
	OptionFeedbackReceivers     = "helpful_feedback_receivers"
	OptionFeedbackGravatar      = "helpful_feedback_gravatar"
	OptionWidgetAmount          = "helpful_widget_amount"
	OptionFeedbackMessagePro    = "helpful_feedback_message_pro"
	OptionFeedbackMessageContra = "helpful_feedback_message_contra"
	OptionFeedbackMessageVoted  = "helpful_feedback_message_voted"
	OptionFeedbackMessageSend   = "helpful_feedback_message_send"
	OptionFeedbackAfterPro      = "helpful_feedback_after_pro"
	OptionFeedbackAfterContra   = "helpful_feedback_after_contra"
	OptionAfterPro              = "helpful_after_pro"
	OptionAfterContra           = "helpful_after_contra"
	OptionHeading               = "helpful_heading"
	OptionPro                   = "helpful_pro"
	OptionContra                = "helpful_contra"
	OptionBlocklistKeys         = "helpful_blocklist_keys"
	OptionTimezone              = "helpful_timezone"
	OptionSiteName              = "blogname"
	OptionSiteURL               = "siteurl"
)

const DefaultEmailContent = `<h2>Feedback from your website</h2>
<p>Type: {type}</p>
<p>Post: <a href="{post_url}">{post_title}</a></p>
<p>Name: {name}</p>
<p>Email: {email}</p>
<p>Message: {message}</p>
<hr>
<p>This email was sent automatically from {blog_name} ({blog_url}).</p>`

// Settings is the site-wide option set. It is loaded once per request path
// and handed to every component that needs it.
type Settings struct {
	FeedbackSendEmail     bool
	FeedbackSubject       string
	FeedbackEmailContent  string
	FeedbackReceivers     string
	FeedbackGravatar      bool
	WidgetAmount          int
	FeedbackMessagePro    string
	FeedbackMessageContra string
	FeedbackMessageVoted  string
	FeedbackMessageSend   string
	FeedbackAfterPro      bool
	FeedbackAfterContra   bool
	AfterPro              string
	AfterContra           string
	Heading               string
	Pro                   string
	Contra                string
	BlocklistKeys         string
	Timezone              string
	SiteName              string
	SiteURL               string
}

func DefaultSettings(cfg *Config) Settings {
	s := Settings{
		FeedbackSendEmail:     false,
		FeedbackSubject:       "There is new feedback!",
		FeedbackEmailContent:  DefaultEmailContent,
		WidgetAmount:          5,
		FeedbackMessagePro:    "Thank you very much. Please write us your opinion, so that we can improve ourselves.",
		FeedbackMessageContra: "Thank you very much. Please write us your opinion, so that we can improve ourselves.",
		FeedbackMessageVoted:  "You have already voted. Would you like to tell us more?",
		FeedbackMessageSend:   "Thank you for your feedback!",
		FeedbackAfterPro:      false,
		FeedbackAfterContra:   true,
		AfterPro:              "Thank you for your vote!",
		AfterContra:           "Thank you for your vote!",
		Heading:               "Was this post helpful?",
		Pro:                   "Yes",
		Contra:                "No",
		Timezone:              "UTC",
	}
	if cfg != nil {
		s.SiteName = cfg.SiteName
		s.SiteURL = cfg.SiteURL
	}
	return s
}

// FromOptions overlays stored option values on the defaults. Unknown keys are
// ignored.
func FromOptions(defaults Settings, options map[string]string) Settings {
	s := defaults
	str := func(key string, dst *string) {
		if v, ok := options[key]; ok {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := options[key]; ok {
			*dst = IsOn(v)
		}
	}

	flag(OptionFeedbackSendEmail, &s.FeedbackSendEmail)
	str(OptionFeedbackSubject, &s.FeedbackSubject)
	str(OptionFeedbackEmailContent, &s.FeedbackEmailContent)
	str(OptionFeedbackReceivers, &s.FeedbackReceivers)
	flag(OptionFeedbackGravatar, &s.FeedbackGravatar)
	if v, ok := options[OptionWidgetAmount]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			if n < 0 {
				n = -n
			}
			s.WidgetAmount = n
		}
	}
	str(OptionFeedbackMessagePro, &s.FeedbackMessagePro)
	str(OptionFeedbackMessageContra, &s.FeedbackMessageContra)
	str(OptionFeedbackMessageVoted, &s.FeedbackMessageVoted)
	str(OptionFeedbackMessageSend, &s.FeedbackMessageSend)
	flag(OptionFeedbackAfterPro, &s.FeedbackAfterPro)
	flag(OptionFeedbackAfterContra, &s.FeedbackAfterContra)
	str(OptionAfterPro, &s.AfterPro)
	str(OptionAfterContra, &s.AfterContra)
	str(OptionHeading, &s.Heading)
	str(OptionPro, &s.Pro)
	str(OptionContra, &s.Contra)
	str(OptionBlocklistKeys, &s.BlocklistKeys)
	str(OptionTimezone, &s.Timezone)
	str(OptionSiteName, &s.SiteName)
	str(OptionSiteURL, &s.SiteURL)

	return s
}

// ToOptions is the inverse of FromOptions.
func (s Settings) ToOptions() map[string]string {
	return map[string]string{
		OptionFeedbackSendEmail:     onOff(s.FeedbackSendEmail),
		OptionFeedbackSubject:       s.FeedbackSubject,
		OptionFeedbackEmailContent:  s.FeedbackEmailContent,
		OptionFeedbackReceivers:     s.FeedbackReceivers,
		OptionFeedbackGravatar:      onOff(s.FeedbackGravatar),
		OptionWidgetAmount:          strconv.Itoa(s.WidgetAmount),
		OptionFeedbackMessagePro:    s.FeedbackMessagePro,
		OptionFeedbackMessageContra: s.FeedbackMessageContra,
		OptionFeedbackMessageVoted:  s.FeedbackMessageVoted,
		OptionFeedbackMessageSend:   s.FeedbackMessageSend,
		OptionFeedbackAfterPro:      onOff(s.FeedbackAfterPro),
		OptionFeedbackAfterContra:   onOff(s.FeedbackAfterContra),
		OptionAfterPro:              s.AfterPro,
		OptionAfterContra:           s.AfterContra,
		OptionHeading:               s.Heading,
		OptionPro:                   s.Pro,
		OptionContra:                s.Contra,
		OptionBlocklistKeys:         s.BlocklistKeys,
		OptionTimezone:              s.Timezone,
		OptionSiteName:              s.SiteName,
		OptionSiteURL:               s.SiteURL,
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsOn reports whether a stored checkbox value is enabled.
func IsOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
