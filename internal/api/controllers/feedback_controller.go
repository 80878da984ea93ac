package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/request_models"
	"helpful/internal/models/response_models"
	"helpful/internal/services"
	"helpful/internal/templates"
	"helpful/pkg/memcache"
	"helpful/pkg/middleware"
	"helpful/pkg/utils"
)

type FeedbackController struct {
	settingsService     services.SettingsServiceInterface
	feedbackService     services.FeedbackServiceInterface
	feedbackItemService services.FeedbackItemServiceInterface
	presentationService services.PresentationServiceInterface
	accountService      services.AccountServiceInterface
	nonces              memcache.NonceStore
	hooks               *services.Hooks
}

func NewFeedbackController(
	settingsService services.SettingsServiceInterface,
	feedbackService services.FeedbackServiceInterface,
	feedbackItemService services.FeedbackItemServiceInterface,
	presentationService services.PresentationServiceInterface,
	accountService services.AccountServiceInterface,
	nonces memcache.NonceStore,
	hooks *services.Hooks,
) *FeedbackController {
	return &FeedbackController{
		settingsService:     settingsService,
		feedbackService:     feedbackService,
		feedbackItemService: feedbackItemService,
		presentationService: presentationService,
		accountService:      accountService,
		nonces:              nonces,
		hooks:               hooks,
	}
}

// settings loads the site settings once for the request. On a database
// failure the defaults are used so public pages keep rendering.
func settings(c *gin.Context, s services.SettingsServiceInterface) config.Settings {
	loaded, err := s.Load(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("using default settings")
	}
	return loaded
}

// viewer resolves the signed-in account, or nil for anonymous visitors.
func viewer(c *gin.Context, accounts services.AccountServiceInterface) *services.Identity {
	accountID := c.GetString(middleware.ContextUserID)
	if accountID == "" {
		return nil
	}
	identity, err := accounts.Identity(c.Request.Context(), accountID)
	if err != nil {
		log.Warn().Err(err).Str("account", accountID).Msg("treating visitor as anonymous")
		return nil
	}
	return identity
}

// SubmitFeedback godoc
// @Summary Submit feedback
// @Description Stores a feedback message for a post. The reply is the same whether or not the message was saved.
// @Tags Feedback
// @Accept x-www-form-urlencoded
// @Produce html
// @Param post_id formData string true "Post id"
// @Param message formData string true "Message"
// @Param type formData string false "pro, contra or none"
// @Param _wpnonce formData string true "Nonce from the feedback form"
// @Success 200 {string} string
// @Failure 403 {object} utils.APIResponse
// @Router /feedback [post]
func (f *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req request_models.SubmitFeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	// absent maps stay nil so the fields filter only runs when fields were posted
	if fields, ok := c.GetPostFormMap("fields"); ok {
		req.Fields = fields
	}
	if session, ok := c.GetPostFormMap("session"); ok {
		req.Session = session
	}

	actor := middleware.Actor(c)
	if !f.nonces.Verify(services.FeedbackNonceAction, actor, req.Nonce) {
		utils.HandleServiceError(c, utils.ErrInvalidNonce)
		return
	}

	ctx := c.Request.Context()
	s := settings(c, f.settingsService)

	if req.Website != "" && f.hooks.SpamProtectionEnabled() {
		log.Info().Str("actor", actor).Msg("honeypot filled, dropping feedback")
		utils.RespondHTML(c, s.FeedbackMessageSend)
		return
	}

	identity := viewer(c, f.accountService)

	id, err := f.feedbackService.InsertFeedback(ctx, s, services.FeedbackSubmission{
		PostID:  req.PostID,
		Message: req.Message,
		Type:    req.Type,
		UserID:  req.UserID,
		Fields:  req.Fields,
		Session: req.Session,
	}, identity)
	if err != nil {
		log.Debug().Err(err).Msg("feedback not saved")
	} else {
		log.Debug().Uint("feedback_id", id).Msg("feedback saved")
	}

	utils.RespondHTML(c, s.FeedbackMessageSend)
}

// FeedbackForm godoc
// @Summary Render the after-vote view
// @Tags Feedback
// @Produce html
// @Param post_id query int true "Post id"
// @Param show_feedback query bool false "Always show the form"
// @Success 200 {string} string
// @Router /feedback/form [get]
func (f *FeedbackController) FeedbackForm(c *gin.Context) {
	postID := utils.AbsInt(c.Query("post_id"))
	showFeedback, _ := strconv.ParseBool(c.DefaultQuery("show_feedback", "false"))

	s := settings(c, f.settingsService)
	out, err := f.presentationService.AfterVote(c.Request.Context(), s, middleware.Actor(c), viewer(c, f.accountService), postID, showFeedback)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondHTML(c, out)
}

// Widget godoc
// @Summary Render the vote widget
// @Tags Feedback
// @Produce html
// @Param post_id query int true "Post id"
// @Success 200 {string} string
// @Router /widget [get]
func (f *FeedbackController) Widget(c *gin.Context) {
	postID := utils.AbsInt(c.Query("post_id"))
	if postID == 0 {
		utils.HandleServiceError(c, utils.ErrInvalidPostID)
		return
	}

	s := settings(c, f.settingsService)
	out, err := f.presentationService.Widget(c.Request.Context(), s, middleware.Actor(c), viewer(c, f.accountService), postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondHTML(c, out)
}

// ListFeedback godoc
// @Summary List recent feedback
// @Tags Admin
// @Produce json
// @Param limit query int false "Number of items, defaults to the widget amount"
// @Success 200 {array} response_models.FeedbackItem
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/feedback [get]
func (f *FeedbackController) ListFeedback(c *gin.Context) {
	var limit *int
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.HandleServiceError(c, utils.ErrInvalidLimit)
			return
		}
		limit = &n
	}

	s, err := f.settingsService.Load(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	items, err := f.feedbackItemService.Items(c.Request.Context(), s, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Feedback fetched successfully")
}

// CountFeedback godoc
// @Summary Count feedback
// @Description Counts feedback for one post, or for all posts when post_id is absent or not a number.
// @Tags Admin
// @Produce json
// @Param post_id query string false "Post id"
// @Success 200 {object} response_models.FeedbackCountResponse
// @Security BearerAuth
// @Router /admin/feedback/count [get]
func (f *FeedbackController) CountFeedback(c *gin.Context) {
	var postID *uint
	if n, err := strconv.ParseUint(c.Query("post_id"), 10, 64); err == nil {
		id := uint(n)
		postID = &id
	}

	count, err := f.feedbackService.CountFeedback(c.Request.Context(), postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.FeedbackCountResponse{PostID: postID, Count: count}, "")
}

// Avatar serves the bundled default avatar.
func (f *FeedbackController) Avatar(c *gin.Context) {
	contentType, body := templates.DefaultAvatar()
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, body)
}
