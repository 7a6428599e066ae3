package controller

import (
	"errors"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	Storage     service.StorageProvider
}

func NewUserController(userService *service.UserService, storage service.StorageProvider) *UserController {
	return &UserController{UserService: userService, Storage: storage}
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateProfileInput true "Fields to change"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Failure 400 {object} util.Response "Invalid input"
// @Failure 409 {object} util.Response "Username already taken"
// @Router /api/users/me [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidUsername):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// UpdateSocials godoc
// @Summary Replace the authenticated user's social links
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.SocialProfiles true "Social links"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Router /api/users/me/socials [put]
func (c *UserController) UpdateSocials(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req model.SocialProfiles
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateSocials(claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload a new avatar image
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "Avatar image"
// @Success 200 {object} util.Response{data=model.User} "Updated user"
// @Failure 400 {object} util.Response "Missing or oversized file"
// @Router /api/users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}
	if file.Size > 5<<20 {
		util.BadRequest(ctx, "avatar must be under 5MB")
		return
	}

	url, err := c.Storage.Upload(ctx.Request.Context(), file, "avatars")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.UpdateAvatar(claims.UserID, url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// GetProfile godoc
// @Summary View a user's public profile
// @Description Social links are only included when the viewer is a confirmed friend
// @Tags users
// @Produce  json
// @Param   username path string true "Username"
// @Success 200 {object} util.Response{data=service.PublicProfile} "Profile"
// @Failure 404 {object} util.Response "Unknown user"
// @Router /api/profiles/{username} [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := c.UserService.GetProfile(ctx.Param("username"), viewerID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// ListUserPlaylists godoc
// @Summary List a user's playlists
// @Tags users
// @Produce  json
// @Param   username path string true "Username"
// @Success 200 {object} util.Response{data=[]model.Playlist} "Playlists"
// @Failure 404 {object} util.Response "Unknown user"
// @Router /api/profiles/{username}/playlists [get]
func (c *UserController) ListUserPlaylists(ctx *gin.Context) {
	playlists, err := c.UserService.ListPlaylistsByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, playlists)
}

// GetOwnProfile godoc
// @Summary The authenticated user's full profile
// @Description Includes socials, playlists, counters, friends and pending requests
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.OwnProfile} "Profile"
// @Router /api/profile [get]
func (c *UserController) GetOwnProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetOwnProfile(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// ListUsers godoc
// @Summary List users for the people browser
// @Tags users
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.User} "Users"
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.ListDirectory()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
