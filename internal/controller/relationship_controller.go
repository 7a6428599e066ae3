package controller

import (
	"errors"
	"strconv"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

type RelationshipController struct {
	RelService *service.RelationshipService
}

func NewRelationshipController(relService *service.RelationshipService) *RelationshipController {
	return &RelationshipController{RelService: relService}
}

// ToggleFollow godoc
// @Summary Follow or unfollow a user
// @Description Flips the caller's follow edge and returns the resulting state
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response{data=service.FollowState} "New follow state"
// @Failure 400 {object} util.Response "Cannot follow yourself"
// @Failure 404 {object} util.Response "Unknown user"
// @Router /api/users/{id}/follow [post]
func (c *RelationshipController) ToggleFollow(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	state, err := c.RelService.ToggleFollow(claims.UserID, targetID)
	if err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// SendFriendRequest godoc
// @Summary Send a friend request
// @Description If the target already has a pending request towards the caller, the two collapse into a friendship
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Receiver user ID"
// @Success 200 {object} util.Response{data=object} "Resulting friend status"
// @Failure 400 {object} util.Response "Self request"
// @Failure 404 {object} util.Response "Unknown user"
// @Failure 409 {object} util.Response "Already friends or already requested"
// @Router /api/users/{id}/friend-request [post]
func (c *RelationshipController) SendFriendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	receiverID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	status, err := c.RelService.SendFriendRequest(claims.UserID, receiverID)
	if err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	// A freshly opened request reads "pending" on the wire; the directional
	// pending_sent/pending_received values belong to the status probe.
	wire := string(status)
	if status == model.FriendStatusPendingSent {
		wire = "pending"
	}
	util.Success(ctx, gin.H{"friendStatus": wire})
}

// AcceptRequest godoc
// @Summary Accept a pending friend request
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Sender user ID"
// @Success 200 {object} util.Response "Accepted"
// @Failure 400 {object} util.Response "No pending request from that user"
// @Failure 404 {object} util.Response "Unknown user"
// @Router /api/users/{id}/friend-request/accept [post]
func (c *RelationshipController) AcceptRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	senderID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.RelService.AcceptRequest(claims.UserID, senderID); err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"friendStatus": "friends"})
}

// RejectRequest godoc
// @Summary Reject a pending friend request
// @Description Rejecting an already-resolved request is a no-op
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Sender user ID"
// @Success 200 {object} util.Response "Rejected"
// @Router /api/users/{id}/friend-request/reject [post]
func (c *RelationshipController) RejectRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	senderID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.RelService.RejectRequest(claims.UserID, senderID); err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"friendStatus": "none"})
}

// CancelRequest godoc
// @Summary Withdraw a friend request the caller sent
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Receiver user ID"
// @Success 200 {object} util.Response "Cancelled"
// @Router /api/users/{id}/friend-request [delete]
func (c *RelationshipController) CancelRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	receiverID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.RelService.CancelRequest(claims.UserID, receiverID); err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"friendStatus": "none"})
}

// RemoveFriend godoc
// @Summary Remove a friend
// @Description Deletes both sides of the friendship; removing a non-friend is a no-op
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Friend user ID"
// @Success 200 {object} util.Response "Removed"
// @Router /api/users/{id}/friend [delete]
func (c *RelationshipController) RemoveFriend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	friendID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.RelService.RemoveFriend(claims.UserID, friendID); err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"friendStatus": "none"})
}

// ListFriends godoc
// @Summary List the caller's friends
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserSummary} "Friends"
// @Router /api/friends [get]
func (c *RelationshipController) ListFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.RelService.ListFriends(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, friends)
}

// ListPendingRequests godoc
// @Summary List friend requests waiting on the caller
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserSummary} "Pending senders"
// @Router /api/friends/requests [get]
func (c *RelationshipController) ListPendingRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	senders, err := c.RelService.ListPendingRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, senders)
}

// GetFriendStatus godoc
// @Summary The caller's relationship to another user
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response{data=object} "{status, canSeeSocials}"
// @Router /api/users/{id}/friend-status [get]
func (c *RelationshipController) GetFriendStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	status, err := c.RelService.FriendStatusFor(claims.UserID, targetID)
	if err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	canSee, err := c.RelService.CanSeeSocials(claims.UserID, targetID)
	if err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"status":        status,
		"canSeeSocials": canSee,
	})
}

// GetFollowingStatus godoc
// @Summary Whether the caller follows another user
// @Tags social
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Target user ID"
// @Success 200 {object} util.Response{data=object} "{isFollowing}"
// @Router /api/users/{id}/following-status [get]
func (c *RelationshipController) GetFollowingStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	following, err := c.RelService.IsFollowing(claims.UserID, targetID)
	if err != nil {
		respondRelationshipError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"isFollowing": following})
}

func respondRelationshipError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSelfAction):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNoPendingRequest):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAlreadyFriends), errors.Is(err, util.ErrRequestAlreadySent):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID parses a numeric path parameter, responding 400 itself on garbage.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}
