package request_models

// MetaBoxRequest is the admin meta box form. Checkbox values are "yes" when
// ticked.
type MetaBoxRequest struct {
	RemoveData string `form:"helpful_remove_data"`
	HideOnPost string `form:"helpful_hide_on_post"`
}

type UpsertContentRequest struct {
	Title             string  `json:"title" binding:"required,max=255"`
	URL               string  `json:"url" binding:"omitempty,url,max=500"`
	FeedbackReceivers *string `json:"feedback_receivers"`
	HideFeedback      *bool   `json:"hide_feedback"`
}

// UpdateSettingsRequest maps option names to their new values.
type UpdateSettingsRequest struct {
	Options map[string]string `json:"options" binding:"required"`
}
