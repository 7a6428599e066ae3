package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlaylistNormalizesInput(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)

	p, err := env.playlist.Create(owner.ID, &service.PlaylistInput{
		Title:    "  Morning Mix  ",
		URL:      "https://open.spotify.com/playlist/xyz",
		Provider: " Spotify ",
		Genres:   []string{"Pop", "pop", "", "Indie"},
		Tags: []service.TagInput{
			{Text: "chill"},
			{Text: "workout", Color: "#ff0000"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Mix", p.Title)
	assert.Equal(t, "spotify", p.Provider)
	assert.ElementsMatch(t, []string{"pop", "indie"}, p.GenreNames())
	require.Len(t, p.Tags, 2)
	assert.Equal(t, util.DefaultTagColor, p.Tags[0].Color)
	assert.Equal(t, "#ff0000", p.Tags[1].Color)
}

func TestCreatePlaylistUnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)

	_, err := env.playlist.Create(owner.ID, &service.PlaylistInput{
		Title:    "Mix",
		URL:      "https://example.com/p",
		Provider: "napster",
	})
	assert.ErrorIs(t, err, util.ErrUnknownProvider)
}

func TestUpdatePlaylistOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	other := env.createUser(t)
	p := env.createPlaylist(t, owner.ID, "Mix")

	input := &service.PlaylistInput{
		Title:    "Renamed",
		URL:      p.URL,
		Provider: "spotify",
		Genres:   []string{"jazz"},
	}

	_, err := env.playlist.Update(other.ID, p.ID, input)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := env.playlist.Update(owner.ID, p.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"jazz"}, updated.GenreNames())
}

func TestDeletePlaylistPermissions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	other := env.createUser(t)
	admin := env.createAdmin(t, model.RoleAdmin)

	p := env.createPlaylist(t, owner.ID, "Mine")
	err := env.playlist.Delete(other.ID, model.RoleUser, p.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, env.playlist.Delete(owner.ID, model.RoleUser, p.ID))
	_, err = env.playlist.Get(p.ID)
	assert.ErrorIs(t, err, util.ErrPlaylistNotFound)

	// Admin can remove someone else's.
	p2 := env.createPlaylist(t, owner.ID, "Another")
	require.NoError(t, env.playlist.Delete(admin.ID, admin.Role, p2.ID))

	// Moderators hold no delete power over other people's playlists.
	mod := env.createAdmin(t, model.RoleModerator)
	p3 := env.createPlaylist(t, owner.ID, "Third")
	assert.ErrorIs(t, env.playlist.Delete(mod.ID, mod.Role, p3.ID), util.ErrPermissionDenied)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	fan := env.createUser(t)
	p := env.createPlaylist(t, owner.ID, "Mix")

	state, err := env.playlist.ToggleLike(fan.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.LikesCount)

	state, err = env.playlist.ToggleLike(fan.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(0), state.LikesCount)

	// Two likers count once each.
	_, err = env.playlist.ToggleLike(fan.ID, p.ID)
	require.NoError(t, err)
	state, err = env.playlist.ToggleLike(owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.LikesCount)
}

func TestViewAndClickCounters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	p := env.createPlaylist(t, owner.ID, "Mix")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.playlist.RecordView(p.ID))
	}
	require.NoError(t, env.playlist.RecordClick(p.ID))

	got, err := env.playlist.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)
	assert.Equal(t, int64(1), got.Clicks)

	assert.ErrorIs(t, env.playlist.RecordView(99999), util.ErrPlaylistNotFound)
	assert.ErrorIs(t, env.playlist.RecordClick(99999), util.ErrPlaylistNotFound)
}

func TestConcurrentCounterIncrementsDoNotLoseUpdates(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	p := env.createPlaylist(t, owner.ID, "Busy")

	const n = 25
	errs := make(chan error, 2*n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- env.playlist.RecordView(p.ID)
		}()
		go func() {
			defer wg.Done()
			errs <- env.playlist.RecordClick(p.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := env.playlist.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)
	assert.Equal(t, int64(n), got.Clicks)
}

func TestSearchTextMatchesTitleTagAndOwner(t *testing.T) {
	env := newTestEnv(t)
	dj := env.createUser(t)
	other := env.createUser(t)

	_, err := env.playlist.Create(dj.ID, &service.PlaylistInput{
		Title:    "Deep Focus",
		URL:      "https://example.com/1",
		Provider: "spotify",
		Tags:     []service.TagInput{{Text: "study"}},
	})
	require.NoError(t, err)
	_, err = env.playlist.Create(other.ID, &service.PlaylistInput{
		Title:    "Party Hits",
		URL:      "https://example.com/2",
		Provider: "youtube",
	})
	require.NoError(t, err)

	// Title match, case-insensitive substring.
	res, err := env.playlist.Search(service.SearchQuery{Text: "FOCUS"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Deep Focus", res[0].Title)

	// Tag match.
	res, err = env.playlist.Search(service.SearchQuery{Text: "study"})
	require.NoError(t, err)
	require.Len(t, res, 1)

	// Owner username match.
	res, err = env.playlist.Search(service.SearchQuery{Text: dj.Username})
	require.NoError(t, err)
	require.Len(t, res, 1)

	res, err = env.playlist.Search(service.SearchQuery{Text: "nothing-matches"})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearchFilters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)

	_, err := env.playlist.Create(owner.ID, &service.PlaylistInput{
		Title: "A", URL: "https://example.com/a", Provider: "spotify", Genres: []string{"pop"},
	})
	require.NoError(t, err)
	_, err = env.playlist.Create(owner.ID, &service.PlaylistInput{
		Title: "B", URL: "https://example.com/b", Provider: "youtube", Genres: []string{"rock"},
	})
	require.NoError(t, err)

	res, err := env.playlist.Search(service.SearchQuery{Provider: "spotify"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "A", res[0].Title)

	res, err = env.playlist.Search(service.SearchQuery{Genre: "rock"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "B", res[0].Title)

	// "all" disables the filter.
	res, err = env.playlist.Search(service.SearchQuery{Genre: "all", Provider: "all"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestSearchSortOrders(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	fan := env.createUser(t)

	first := env.createPlaylist(t, owner.ID, "First")
	time.Sleep(5 * time.Millisecond)
	second := env.createPlaylist(t, owner.ID, "Second")

	_, err := env.playlist.ToggleLike(fan.ID, first.ID)
	require.NoError(t, err)
	require.NoError(t, env.playlist.RecordView(second.ID))
	require.NoError(t, env.playlist.RecordClick(second.ID))

	res, err := env.playlist.Search(service.SearchQuery{Sort: "oldest"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "First", res[0].Title)

	res, err = env.playlist.Search(service.SearchQuery{Sort: "most-liked"})
	require.NoError(t, err)
	assert.Equal(t, "First", res[0].Title)

	res, err = env.playlist.Search(service.SearchQuery{Sort: "most-viewed"})
	require.NoError(t, err)
	assert.Equal(t, "Second", res[0].Title)

	res, err = env.playlist.Search(service.SearchQuery{Sort: "most-clicked"})
	require.NoError(t, err)
	assert.Equal(t, "Second", res[0].Title)
}

func TestDeletePlaylistRemovesLikes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	fan := env.createUser(t)
	p := env.createPlaylist(t, owner.ID, "Mix")

	_, err := env.playlist.ToggleLike(fan.ID, p.ID)
	require.NoError(t, err)

	require.NoError(t, env.playlist.Delete(owner.ID, model.RoleUser, p.ID))

	var likes int64
	require.NoError(t, env.db.Model(&model.PlaylistLike{}).Where("playlist_id = ?", p.ID).Count(&likes).Error)
	assert.Zero(t, likes)
}
