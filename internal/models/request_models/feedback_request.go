package request_models

// SubmitFeedbackRequest is the feedback form post. Every field is optional at
// the transport level; presence rules are enforced by the feedback service.
type SubmitFeedbackRequest struct {
	PostID  *string           `form:"post_id"`
	Message *string           `form:"message"`
	Type    *string           `form:"type"`
	UserID  string            `form:"user_id"`
	Website string            `form:"website"`
	Nonce   string            `form:"_wpnonce"`
	Fields  map[string]string `form:"-"`
	Session map[string]string `form:"-"`
}

type CastVoteRequest struct {
	PostID string `form:"post_id" binding:"required"`
	Type   string `form:"type" binding:"required,oneof=pro contra"`
	Nonce  string `form:"_wpnonce"`
}
