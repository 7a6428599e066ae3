package service_test

import (
	"testing"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileUsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)

	_, err := env.user.UpdateProfile(alice.ID, &service.UpdateProfileInput{
		Username: strPtr(bob.Username),
	})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	// Re-submitting your own username is fine.
	updated, err := env.user.UpdateProfile(alice.ID, &service.UpdateProfileInput{
		Username: strPtr(alice.Username),
		Bio:      strPtr("tunes all day"),
	})
	require.NoError(t, err)
	assert.Equal(t, alice.Username, updated.Username)
	assert.Equal(t, "tunes all day", updated.Bio)

	_, err = env.user.UpdateProfile(alice.ID, &service.UpdateProfileInput{
		Username: strPtr("not ok!"),
	})
	assert.ErrorIs(t, err, util.ErrInvalidUsername)
}

func TestProfileHidesSocialsFromStrangers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)

	_, err := env.user.UpdateSocials(alice.ID, &model.SocialProfiles{
		Spotify:   "https://open.spotify.com/user/alice",
		Instagram: "https://instagram.com/alice",
	})
	require.NoError(t, err)
	env.createPlaylist(t, alice.ID, "Alice Mix")

	// Anonymous viewer: no socials, playlists visible.
	profile, err := env.user.GetProfile(alice.Username, 0)
	require.NoError(t, err)
	assert.False(t, profile.CanSeeSocials)
	assert.Empty(t, profile.User.SocialProfiles.Spotify)
	assert.Len(t, profile.Playlists, 1)

	// Stranger: same.
	profile, err = env.user.GetProfile(alice.Username, bob.ID)
	require.NoError(t, err)
	assert.False(t, profile.CanSeeSocials)
	assert.Equal(t, model.FriendStatusNone, profile.FriendStatus)

	// Friend: socials visible.
	_, err = env.rel.SendFriendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.rel.AcceptRequest(alice.ID, bob.ID))

	profile, err = env.user.GetProfile(alice.Username, bob.ID)
	require.NoError(t, err)
	assert.True(t, profile.CanSeeSocials)
	assert.Equal(t, "https://open.spotify.com/user/alice", profile.User.SocialProfiles.Spotify)
	assert.Equal(t, model.FriendStatusFriends, profile.FriendStatus)

	// Owner always sees their own.
	profile, err = env.user.GetProfile(alice.Username, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.CanSeeSocials)
}

func TestOwnProfileIncludesFriendsAndRequests(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)
	carol := env.createUser(t)

	_, err := env.user.UpdateSocials(alice.ID, &model.SocialProfiles{Spotify: "https://spotify.com/alice"})
	require.NoError(t, err)

	_, err = env.rel.SendFriendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.rel.AcceptRequest(alice.ID, bob.ID))
	_, err = env.rel.SendFriendRequest(carol.ID, alice.ID)
	require.NoError(t, err)

	own, err := env.user.GetOwnProfile(alice.ID)
	require.NoError(t, err)
	assert.True(t, own.CanSeeSocials)
	assert.Equal(t, "https://spotify.com/alice", own.User.SocialProfiles.Spotify)
	require.Len(t, own.Friends, 1)
	assert.Equal(t, bob.Username, own.Friends[0].Username)
	require.Len(t, own.PendingRequests, 1)
	assert.Equal(t, carol.Username, own.PendingRequests[0].Username)
}

func TestProfileReportsFollowState(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)

	_, err := env.rel.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)

	profile, err := env.user.GetProfile(alice.Username, bob.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(1), profile.FollowersCount)

	_, err = env.user.GetProfile("nobody_here", bob.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
