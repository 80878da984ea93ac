package services

import (
	"helpful/internal/models/db_models"
	"helpful/internal/models/response_models"
	"helpful/pkg/hooks"
)

// Extension point names. They are part of the public contract and must not
// change.
const (
	HookAdminFeedbackItem      = "helpful_admin_feedback_item"
	HookFeedbackNoAvatar       = "helpful_feedback_noavatar"
	HookSimpleSpamProtection   = "helpful_simple_spam_protection"
	HookFeedbackSubmitFields   = "helpful_feedback_submit_fields"
	HookFeedbackSubmitMessage  = "helpful_feedback_submit_message"
	HookFeedbackEmailTags      = "helpful_feedback_email_tags"
	HookFeedbackEmailSubject   = "helpful_feedback_email_subject"
	HookFeedbackEmailBody      = "helpful_feedback_email_body"
	HookFeedbackEmailReceivers = "helpful_feedback_email_receivers"
	HookFeedbackEmailHeaders   = "helpful_feedback_email_headers"
	HookBeforeFeedbackForm     = "helpful_before_feedback_form"
	HookAfterFeedbackForm      = "helpful_after_feedback_form"
)

// Hooks is the registry of every extension point. Third-party code registers
// callbacks on the exported fields; services only apply them.
type Hooks struct {
	AdminFeedbackItem *hooks.Filter[response_models.FeedbackItem, db_models.Feedback]
	FeedbackNoAvatar  *hooks.Filter[string, hooks.None]

	// SimpleSpamProtection toggles the honeypot field. Results that are not a
	// bool are treated as true.
	SimpleSpamProtection *hooks.Filter[any, hooks.None]

	// SubmitFields receives the visitor session for anonymous submissions and
	// nil for authenticated ones.
	SubmitFields  *hooks.Filter[map[string]string, map[string]string]
	SubmitMessage *hooks.Filter[string, hooks.None]

	EmailTags      *hooks.Filter[map[string]string, hooks.None]
	EmailSubject   *hooks.Filter[string, *db_models.Feedback]
	EmailBody      *hooks.Filter[string, *db_models.Feedback]
	EmailReceivers *hooks.Filter[[]string, *db_models.Feedback]
	EmailHeaders   *hooks.Filter[[]string, *db_models.Feedback]

	BeforeFeedbackForm *hooks.Action
	AfterFeedbackForm  *hooks.Action
}

var noneArg = hooks.None{}

func NewHooks() *Hooks {
	return &Hooks{
		AdminFeedbackItem:    hooks.NewFilter[response_models.FeedbackItem, db_models.Feedback](HookAdminFeedbackItem),
		FeedbackNoAvatar:     hooks.NewFilter[string, hooks.None](HookFeedbackNoAvatar),
		SimpleSpamProtection: hooks.NewFilter[any, hooks.None](HookSimpleSpamProtection),
		SubmitFields:         hooks.NewFilter[map[string]string, map[string]string](HookFeedbackSubmitFields),
		SubmitMessage:        hooks.NewFilter[string, hooks.None](HookFeedbackSubmitMessage),
		EmailTags:            hooks.NewFilter[map[string]string, hooks.None](HookFeedbackEmailTags),
		EmailSubject:         hooks.NewFilter[string, *db_models.Feedback](HookFeedbackEmailSubject),
		EmailBody:            hooks.NewFilter[string, *db_models.Feedback](HookFeedbackEmailBody),
		EmailReceivers:       hooks.NewFilter[[]string, *db_models.Feedback](HookFeedbackEmailReceivers),
		EmailHeaders:         hooks.NewFilter[[]string, *db_models.Feedback](HookFeedbackEmailHeaders),
		BeforeFeedbackForm:   hooks.NewAction(HookBeforeFeedbackForm),
		AfterFeedbackForm:    hooks.NewAction(HookAfterFeedbackForm),
	}
}

// SpamProtectionEnabled applies the spam protection filter to its default of
// true.
func (h *Hooks) SpamProtectionEnabled() bool {
	v := h.SimpleSpamProtection.Apply(true, noneArg)
	enabled, ok := v.(bool)
	if !ok {
		return true
	}
	return enabled
}
