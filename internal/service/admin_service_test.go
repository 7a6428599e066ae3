package service_test

import (
	"testing"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteAndDemote(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t, model.RoleAdmin)
	super := env.createAdmin(t, model.RoleSuperAdmin)
	user := env.createUser(t)

	promoted, err := env.admin.Promote(admin.ID, user.ID, model.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, promoted.Role)

	// Superadmin cannot be granted through the API.
	_, err = env.admin.Promote(admin.ID, user.ID, model.RoleSuperAdmin)
	require.Error(t, err)

	// Superadmins are untouchable.
	_, err = env.admin.Promote(admin.ID, super.ID, model.RoleAdmin)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = env.admin.Demote(admin.ID, super.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	demoted, err := env.admin.Demote(admin.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, demoted.Role)

	// Self role changes are rejected.
	_, err = env.admin.Demote(admin.ID, admin.ID)
	assert.ErrorIs(t, err, util.ErrSelfAction)
}

func TestBanRespectsAdminRoles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t, model.RoleAdmin)
	other := env.createAdmin(t, model.RoleAdmin)
	user := env.createUser(t)

	banned, err := env.admin.Ban(admin.ID, user.ID, "spamming links")
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	assert.Equal(t, "spamming links", banned.BannedReason)

	_, err = env.admin.Ban(admin.ID, other.ID, "power struggle")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.admin.Ban(admin.ID, admin.ID, "oops")
	assert.ErrorIs(t, err, util.ErrSelfAction)
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	super := env.createAdmin(t, model.RoleSuperAdmin)
	target := env.createUser(t)
	friend := env.createUser(t)

	p := env.createPlaylist(t, target.ID, "Doomed Mix")
	_, err := env.playlist.ToggleLike(friend.ID, p.ID)
	require.NoError(t, err)

	theirs := env.createPlaylist(t, friend.ID, "Keeper Mix")
	_, err = env.playlist.ToggleLike(target.ID, theirs.ID)
	require.NoError(t, err)

	_, err = env.rel.SendFriendRequest(target.ID, friend.ID)
	require.NoError(t, err)
	require.NoError(t, env.rel.AcceptRequest(friend.ID, target.ID))
	_, err = env.rel.ToggleFollow(friend.ID, target.ID)
	require.NoError(t, err)

	require.NoError(t, env.admin.DeleteUser(super.ID, target.ID))

	_, err = env.user.GetProfile(target.Username, 0)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = env.playlist.Get(p.ID)
	assert.ErrorIs(t, err, util.ErrPlaylistNotFound)

	// Likes the deleted account placed on surviving playlists vanish too.
	kept, err := env.playlist.Get(theirs.ID)
	require.NoError(t, err)
	assert.Zero(t, kept.LikesCount)

	friends, err := env.rel.ListFriends(friend.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	var follows int64
	require.NoError(t, env.db.Model(&model.Follow{}).Count(&follows).Error)
	assert.Zero(t, follows)

	// Deleting a superadmin or yourself is refused.
	other := env.createAdmin(t, model.RoleSuperAdmin)
	assert.ErrorIs(t, env.admin.DeleteUser(super.ID, other.ID), util.ErrPermissionDenied)
	assert.ErrorIs(t, env.admin.DeleteUser(super.ID, super.ID), util.ErrSelfAction)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t, model.RoleAdmin)
	user := env.createUser(t)
	env.createPlaylist(t, user.ID, "Mix")

	_, err := env.admin.Ban(admin.ID, user.ID, "spam")
	require.NoError(t, err)

	stats, err := env.admin.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalPlaylists)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
}
