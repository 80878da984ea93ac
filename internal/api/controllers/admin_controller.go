package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"helpful/internal/models/request_models"
	"helpful/internal/services"
	"helpful/pkg/utils"
)

type AdminController struct {
	adminService    services.AdminServiceInterface
	settingsService services.SettingsServiceInterface
}

func NewAdminController(adminService services.AdminServiceInterface, settingsService services.SettingsServiceInterface) *AdminController {
	return &AdminController{
		adminService:    adminService,
		settingsService: settingsService,
	}
}

func contentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.HandleServiceError(c, utils.ErrInvalidPostID)
		return 0, false
	}
	return uint(id), true
}

// GetMetaBox godoc
// @Summary Render the vote meta box of a post
// @Description Returns HTML, or the tally as JSON when format=json.
// @Tags Admin
// @Produce html,json
// @Param id path int true "Post id"
// @Param format query string false "json"
// @Success 200 {object} response_models.MetaBox
// @Security BearerAuth
// @Router /admin/contents/{id}/metabox [get]
func (a *AdminController) GetMetaBox(c *gin.Context) {
	postID, ok := contentID(c)
	if !ok {
		return
	}

	if c.Query("format") == "json" {
		box, err := a.adminService.MetaBox(c.Request.Context(), postID)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, box, "")
		return
	}

	out, err := a.adminService.RenderMetaBox(c.Request.Context(), postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondHTML(c, out)
}

// SaveMetaBox godoc
// @Summary Save the vote meta box of a post
// @Tags Admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post id"
// @Param helpful_remove_data formData string false "yes to delete the votes"
// @Param helpful_hide_on_post formData string false "yes to hide the widget"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contents/{id}/metabox [post]
func (a *AdminController) SaveMetaBox(c *gin.Context) {
	postID, ok := contentID(c)
	if !ok {
		return
	}

	var req request_models.MetaBoxRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.adminService.SaveMetaBox(c.Request.Context(), postID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Meta box saved")
}

// UpsertContent godoc
// @Summary Create or update a post
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Post id"
// @Param request body request_models.UpsertContentRequest true "Content payload"
// @Success 200 {object} response_models.ContentResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contents/{id} [put]
func (a *AdminController) UpsertContent(c *gin.Context) {
	postID, ok := contentID(c)
	if !ok {
		return
	}

	var req request_models.UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	content, err := a.adminService.UpsertContent(c.Request.Context(), postID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, content, "Content saved")
}

// GetSettings godoc
// @Summary Get the site options
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/settings [get]
func (a *AdminController) GetSettings(c *gin.Context) {
	s, err := a.settingsService.Load(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, s.ToOptions(), "")
}

// UpdateSettings godoc
// @Summary Update site options
// @Description Unknown option names are ignored.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.UpdateSettingsRequest true "Options"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/settings [put]
func (a *AdminController) UpdateSettings(c *gin.Context) {
	var req request_models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s, err := a.settingsService.Save(c.Request.Context(), req.Options)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, s.ToOptions(), "Settings saved")
}
