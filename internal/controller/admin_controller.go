package controller

import (
	"errors"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// ListUsers godoc
// @Summary List all accounts for moderation
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "Users"
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.AdminService.ListUsers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// ListPlaylists godoc
// @Summary List all playlists for moderation
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Playlist} "Playlists"
// @Router /api/admin/playlists [get]
func (c *AdminController) ListPlaylists(ctx *gin.Context) {
	playlists, err := c.AdminService.ListPlaylists()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, playlists)
}

// swagger:model PromoteRequest
type PromoteRequest struct {
	Role string `json:"role" binding:"required,oneof=admin moderator"`
}

// Promote godoc
// @Summary Grant a moderation role
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Param   body body PromoteRequest true "Role to grant"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Failure 403 {object} util.Response "Target is a superadmin"
// @Router /api/admin/users/{id}/promote [post]
func (c *AdminController) Promote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req PromoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AdminService.Promote(claims.UserID, targetID, model.UserRole(req.Role))
	if err != nil {
		respondAdminError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Demote godoc
// @Summary Reset a user to the plain user role
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Failure 403 {object} util.Response "Target is a superadmin"
// @Router /api/admin/users/{id}/demote [post]
func (c *AdminController) Demote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.AdminService.Demote(claims.UserID, targetID)
	if err != nil {
		respondAdminError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// swagger:model BanRequest
type BanRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// Ban godoc
// @Summary Ban an account
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Param   body body BanRequest true "Ban reason"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Failure 403 {object} util.Response "Target holds an admin role"
// @Router /api/admin/users/{id}/ban [post]
func (c *AdminController) Ban(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req BanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AdminService.Ban(claims.UserID, targetID, req.Reason)
	if err != nil {
		respondAdminError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Unban godoc
// @Summary Lift a ban
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Router /api/admin/users/{id}/unban [post]
func (c *AdminController) Unban(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.AdminService.Unban(claims.UserID, targetID)
	if err != nil {
		respondAdminError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary Permanently delete an account
// @Description Removes the user, their playlists and every social edge. Superadmin only.
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 403 {object} util.Response "Target is a superadmin or the caller"
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.AdminService.DeleteUser(claims.UserID, targetID); err != nil {
		respondAdminError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// DeletePlaylist godoc
// @Summary Remove any playlist
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/admin/playlists/{id} [delete]
func (c *AdminController) DeletePlaylist(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	playlistID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.AdminService.DeletePlaylist(claims.UserID, playlistID); err != nil {
		if errors.Is(err, util.ErrPlaylistNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// GetStats godoc
// @Summary Dashboard headline numbers
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Stats} "Stats"
// @Router /api/admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.AdminService.GetStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func respondAdminError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSelfAction):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
