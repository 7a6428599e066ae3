package controller

import (
	"errors"

	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

type PlaylistController struct {
	PlaylistService *service.PlaylistService
	Storage         service.StorageProvider
}

func NewPlaylistController(playlistService *service.PlaylistService, storage service.StorageProvider) *PlaylistController {
	return &PlaylistController{PlaylistService: playlistService, Storage: storage}
}

// Create godoc
// @Summary Share a playlist
// @Tags playlists
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PlaylistInput true "Playlist details"
// @Success 201 {object} util.Response{data=model.Playlist} "Created playlist"
// @Failure 400 {object} util.Response "Invalid input or unknown provider"
// @Router /api/playlists [post]
func (c *PlaylistController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PlaylistInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	playlist, err := c.PlaylistService.Create(claims.UserID, &req)
	if err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Created(ctx, playlist)
}

// Get godoc
// @Summary Fetch one playlist
// @Tags playlists
// @Produce  json
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response{data=model.Playlist} "Playlist"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id} [get]
func (c *PlaylistController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	playlist, err := c.PlaylistService.Get(id)
	if err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, playlist)
}

// Update godoc
// @Summary Edit an owned playlist
// @Tags playlists
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Playlist ID"
// @Param   body body service.PlaylistInput true "New playlist details"
// @Success 200 {object} util.Response{data=model.Playlist} "Updated playlist"
// @Failure 403 {object} util.Response "Not the owner"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id} [put]
func (c *PlaylistController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.PlaylistInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	playlist, err := c.PlaylistService.Update(claims.UserID, id, &req)
	if err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, playlist)
}

// Delete godoc
// @Summary Delete a playlist
// @Description Owners delete their own playlists; admin roles may delete anyone's
// @Tags playlists
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 403 {object} util.Response "Not the owner"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id} [delete]
func (c *PlaylistController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.PlaylistService.Delete(claims.UserID, claims.Role, id); err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// ToggleLike godoc
// @Summary Like or unlike a playlist
// @Tags playlists
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response{data=service.LikeState} "New like state"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id}/like [post]
func (c *PlaylistController) ToggleLike(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	state, err := c.PlaylistService.ToggleLike(claims.UserID, id)
	if err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// RecordView godoc
// @Summary Record a playlist view
// @Tags playlists
// @Produce  json
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response "Counted"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id}/view [post]
func (c *PlaylistController) RecordView(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.PlaylistService.RecordView(id); err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"counted": true})
}

// RecordClick godoc
// @Summary Record a click-through to the external playlist link
// @Tags playlists
// @Produce  json
// @Param   id path int true "Playlist ID"
// @Success 200 {object} util.Response "Counted"
// @Failure 404 {object} util.Response "Unknown playlist"
// @Router /api/playlists/{id}/click [post]
func (c *PlaylistController) RecordClick(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.PlaylistService.RecordClick(id); err != nil {
		respondPlaylistError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"counted": true})
}

// Search godoc
// @Summary Browse and search playlists
// @Description Text matches title, tag text and owner username; genre and provider filter exactly; sort is one of newest, oldest, most-liked, most-viewed, most-clicked
// @Tags playlists
// @Produce  json
// @Param   q query string false "Search text"
// @Param   genre query string false "Genre filter"
// @Param   provider query string false "Provider filter"
// @Param   sort query string false "Sort key"
// @Success 200 {object} util.Response{data=[]model.Playlist} "Playlists"
// @Router /api/playlists [get]
func (c *PlaylistController) Search(ctx *gin.Context) {
	text := ctx.Query("q")
	if text == "" {
		text = ctx.Query("query")
	}
	sort := ctx.Query("sort")
	if sort == "" {
		sort = ctx.Query("sortBy")
	}

	playlists, err := c.PlaylistService.Search(service.SearchQuery{
		Text:     text,
		Genre:    ctx.Query("genre"),
		Provider: ctx.Query("provider"),
		Sort:     sort,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, playlists)
}

// ListMine godoc
// @Summary List the caller's playlists
// @Tags playlists
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Playlist} "Playlists"
// @Router /api/playlists/mine [get]
func (c *PlaylistController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	playlists, err := c.PlaylistService.ListByOwner(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, playlists)
}

// UploadCover godoc
// @Summary Upload a playlist cover image
// @Tags playlists
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   cover formData file true "Cover image"
// @Success 200 {object} util.Response{data=object} "Stored cover URL"
// @Failure 400 {object} util.Response "Missing or oversized file"
// @Router /api/playlists/cover [post]
func (c *PlaylistController) UploadCover(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("cover")
	if err != nil {
		util.BadRequest(ctx, "cover file is required")
		return
	}
	if file.Size > 5<<20 {
		util.BadRequest(ctx, "cover must be under 5MB")
		return
	}

	url, err := c.Storage.Upload(ctx.Request.Context(), file, "covers")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"coverUrl": url})
}

func respondPlaylistError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPlaylistNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrUnknownProvider):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
