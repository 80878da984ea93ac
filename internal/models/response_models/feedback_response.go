package response_models

// FeedbackItem is a stored submission prepared for the admin listing.
type FeedbackItem struct {
	ID      uint              `json:"id"`
	Name    string            `json:"name"`
	Message string            `json:"message"`
	Pro     int               `json:"pro"`
	Contra  int               `json:"contra"`
	Post    *ContentResponse  `json:"post,omitempty"`
	Time    string            `json:"time"`
	Date    string            `json:"date"`
	Fields  map[string]string `json:"fields,omitempty"`
	Avatar  string            `json:"avatar"`
}

type FeedbackCountResponse struct {
	PostID *uint `json:"post_id,omitempty"`
	Count  int64 `json:"count"`
}

type ContentResponse struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	URL               string `json:"url"`
	FeedbackReceivers string `json:"feedback_receivers,omitempty"`
	HideFeedback      bool   `json:"hide_feedback"`
	HideHelpful       bool   `json:"hide_helpful"`
}
