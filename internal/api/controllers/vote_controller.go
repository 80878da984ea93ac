package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"helpful/internal/models/db_models"
	"helpful/internal/models/request_models"
	"helpful/internal/services"
	"helpful/pkg/memcache"
	"helpful/pkg/middleware"
	"helpful/pkg/utils"
)

type VoteController struct {
	settingsService services.SettingsServiceInterface
	voteService     services.VoteServiceInterface
	accountService  services.AccountServiceInterface
	nonces          memcache.NonceStore
}

func NewVoteController(
	settingsService services.SettingsServiceInterface,
	voteService services.VoteServiceInterface,
	accountService services.AccountServiceInterface,
	nonces memcache.NonceStore,
) *VoteController {
	return &VoteController{
		settingsService: settingsService,
		voteService:     voteService,
		accountService:  accountService,
		nonces:          nonces,
	}
}

// CastVote godoc
// @Summary Vote on a post
// @Description Stores the first vote of the visitor and returns the after-vote view.
// @Tags Votes
// @Accept x-www-form-urlencoded
// @Produce html
// @Param post_id formData string true "Post id"
// @Param type formData string true "pro or contra"
// @Param _wpnonce formData string true "Nonce from the widget"
// @Success 200 {string} string
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /votes [post]
func (v *VoteController) CastVote(c *gin.Context) {
	var req request_models.CastVoteRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	actor := middleware.Actor(c)
	if !v.nonces.Verify(services.VoteNonceAction, actor, req.Nonce) {
		utils.HandleServiceError(c, utils.ErrInvalidNonce)
		return
	}

	s := settings(c, v.settingsService)
	out, err := v.voteService.CastVote(c.Request.Context(), s, actor, viewer(c, v.accountService), utils.AbsInt(req.PostID), db_models.VoteStatus(req.Type))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondHTML(c, out)
}
