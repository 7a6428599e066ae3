package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"
	"github.com/ManvithReddyyy/vinnu-app/pkg/monitoring"

	"gorm.io/gorm"
)

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	userRepo     *repository.UserRepository
}

func NewPlaylistService(playlistRepo *repository.PlaylistRepository, userRepo *repository.UserRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, userRepo: userRepo}
}

type TagInput struct {
	Text  string `json:"text" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,max=10"`
}

type PlaylistInput struct {
	Title    string     `json:"title" binding:"required,max=160"`
	URL      string     `json:"url" binding:"required,url,max=512"`
	Provider string     `json:"provider" binding:"required"`
	CoverURL string     `json:"coverUrl" binding:"omitempty,max=512"`
	Genres   []string   `json:"genres" binding:"max=10"`
	Tags     []TagInput `json:"tags" binding:"max=10,dive"`
}

func (s *PlaylistService) Create(ownerID uint, input *PlaylistInput) (*model.Playlist, error) {
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if !util.KnownProviders[provider] {
		return nil, util.ErrUnknownProvider
	}

	p := &model.Playlist{
		OwnerID:  ownerID,
		Title:    strings.TrimSpace(input.Title),
		URL:      strings.TrimSpace(input.URL),
		Provider: provider,
		CoverURL: strings.TrimSpace(input.CoverURL),
		Genres:   buildGenres(0, input.Genres),
		Tags:     buildTags(0, input.Tags),
	}
	if err := s.playlistRepo.Create(p); err != nil {
		return nil, err
	}
	return s.playlistRepo.FindByID(p.ID)
}

// Update replaces the playlist's editable fields. Only the owner may edit;
// admins delete rather than edit other people's playlists.
func (s *PlaylistService) Update(callerID uint, playlistID uint, input *PlaylistInput) (*model.Playlist, error) {
	p, err := s.mustFindPlaylist(playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, util.ErrPermissionDenied
	}

	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if !util.KnownProviders[provider] {
		return nil, util.ErrUnknownProvider
	}

	p.Title = strings.TrimSpace(input.Title)
	p.URL = strings.TrimSpace(input.URL)
	p.Provider = provider
	p.CoverURL = strings.TrimSpace(input.CoverURL)

	if err := s.playlistRepo.Update(p, buildGenres(p.ID, input.Genres), buildTags(p.ID, input.Tags)); err != nil {
		return nil, err
	}
	return s.playlistRepo.FindByID(p.ID)
}

// Delete removes a playlist. The owner may always delete their own; callers
// with an admin role may delete anyone's.
func (s *PlaylistService) Delete(callerID uint, callerRole model.UserRole, playlistID uint) error {
	p, err := s.mustFindPlaylist(playlistID)
	if err != nil {
		return err
	}
	isAdmin := callerRole == model.RoleAdmin || callerRole == model.RoleSuperAdmin
	if p.OwnerID != callerID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.playlistRepo.Delete(playlistID)
}

// LikeState is returned from the like toggle so the client can redraw
// without refetching the playlist.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func (s *PlaylistService) ToggleLike(callerID, playlistID uint) (*LikeState, error) {
	if _, err := s.mustFindPlaylist(playlistID); err != nil {
		return nil, err
	}

	liked, err := s.playlistRepo.HasLike(playlistID, callerID)
	if err != nil {
		return nil, err
	}
	if liked {
		err = s.playlistRepo.DeleteLike(playlistID, callerID)
	} else {
		err = s.playlistRepo.CreateLike(playlistID, callerID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.playlistRepo.LikeCount(playlistID)
	if err != nil {
		return nil, err
	}
	if liked {
		monitoring.CountPlaylistEvent("unlike")
	} else {
		monitoring.CountPlaylistEvent("like")
	}
	return &LikeState{Liked: !liked, LikesCount: count}, nil
}

// RecordView bumps the view counter. Unauthenticated viewers count too.
func (s *PlaylistService) RecordView(playlistID uint) error {
	if err := s.playlistRepo.IncrementViews(playlistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPlaylistNotFound
		}
		return err
	}
	monitoring.CountPlaylistEvent("view")
	return nil
}

// RecordClick bumps the click-through counter, fired when someone follows
// the external playlist link.
func (s *PlaylistService) RecordClick(playlistID uint) error {
	if err := s.playlistRepo.IncrementClicks(playlistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPlaylistNotFound
		}
		return err
	}
	monitoring.CountPlaylistEvent("click")
	return nil
}

func (s *PlaylistService) Get(playlistID uint) (*model.Playlist, error) {
	return s.mustFindPlaylist(playlistID)
}

func (s *PlaylistService) ListByOwner(ownerID uint) ([]model.Playlist, error) {
	return s.playlistRepo.ListByOwner(ownerID)
}

// SearchQuery is the feed/search request: an optional text needle plus the
// exact-match filters and a sort key.
type SearchQuery struct {
	Text     string
	Genre    string
	Provider string
	Sort     string
}

// Search runs the feed pipeline: SQL prefilter on genre and provider, an
// in-memory case-insensitive substring match over title, tag text and owner
// username, then the requested sort. Ties keep the newest-first prefilter
// order, so sorting is stable across calls.
func (s *PlaylistService) Search(q SearchQuery) ([]model.Playlist, error) {
	playlists, err := s.playlistRepo.List(repository.PlaylistFilter{
		Genre:    strings.ToLower(strings.TrimSpace(q.Genre)),
		Provider: strings.ToLower(strings.TrimSpace(q.Provider)),
	})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle != "" {
		matched := playlists[:0]
		for _, p := range playlists {
			if matchesText(&p, needle) {
				matched = append(matched, p)
			}
		}
		playlists = matched
	}

	sortPlaylists(playlists, q.Sort)
	return playlists, nil
}

func matchesText(p *model.Playlist, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			return true
		}
	}
	if p.Owner != nil && strings.Contains(strings.ToLower(p.Owner.Username), needle) {
		return true
	}
	return false
}

func sortPlaylists(playlists []model.Playlist, key string) {
	switch key {
	case "oldest":
		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].CreatedAt.Before(playlists[j].CreatedAt)
		})
	case "most-liked":
		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].LikesCount > playlists[j].LikesCount
		})
	case "most-viewed":
		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].Views > playlists[j].Views
		})
	case "most-clicked":
		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].Clicks > playlists[j].Clicks
		})
	default:
		// Already newest first from the repository.
	}
}

func (s *PlaylistService) mustFindPlaylist(id uint) (*model.Playlist, error) {
	p, err := s.playlistRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlaylistNotFound
		}
		return nil, err
	}
	return p, nil
}

func buildGenres(playlistID uint, names []string) []model.PlaylistGenre {
	seen := make(map[string]bool, len(names))
	out := make([]model.PlaylistGenre, 0, len(names))
	for _, name := range names {
		g := strings.ToLower(strings.TrimSpace(name))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, model.PlaylistGenre{PlaylistID: playlistID, Genre: g})
	}
	return out
}

func buildTags(playlistID uint, inputs []TagInput) []model.PlaylistTag {
	out := make([]model.PlaylistTag, 0, len(inputs))
	for _, in := range inputs {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			continue
		}
		color := strings.TrimSpace(in.Color)
		if color == "" {
			color = util.DefaultTagColor
		}
		out = append(out, model.PlaylistTag{PlaylistID: playlistID, Text: text, Color: color})
	}
	return out
}
