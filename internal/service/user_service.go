package service

import (
	"errors"
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo     *repository.UserRepository
	playlistRepo *repository.PlaylistRepository
	relService   *RelationshipService
}

func NewUserService(userRepo *repository.UserRepository, playlistRepo *repository.PlaylistRepository, relService *RelationshipService) *UserService {
	return &UserService{userRepo: userRepo, playlistRepo: playlistRepo, relService: relService}
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,max=50"`
	Username  *string `json:"username" binding:"omitempty"`
	Bio       *string `json:"bio" binding:"omitempty,max=160"`
}

// UpdateProfile applies the fields present in the input. A username change
// must not collide with another account.
func (s *UserService) UpdateProfile(userID uint, input *UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Bio != nil {
		fields["bio"] = strings.TrimSpace(*input.Bio)
	}
	if input.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*input.Username))
		if !usernamePattern.MatchString(username) {
			return nil, util.ErrInvalidUsername
		}
		if username != user.Username {
			if _, err := s.userRepo.FindByUsername(username); err == nil {
				return nil, util.ErrUsernameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			fields["username"] = username
		}
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.userRepo.FindByID(userID)
}

// UpdateSocials replaces the social profile links wholesale.
func (s *UserService) UpdateSocials(userID uint, socials *model.SocialProfiles) (*model.User, error) {
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"social_spotify":     strings.TrimSpace(socials.Spotify),
		"social_apple_music": strings.TrimSpace(socials.AppleMusic),
		"social_you_tube":    strings.TrimSpace(socials.YouTube),
		"social_instagram":   strings.TrimSpace(socials.Instagram),
		"social_twitter":     strings.TrimSpace(socials.Twitter),
	}); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *UserService) UpdateAvatar(userID uint, avatarURL string) (*model.User, error) {
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": avatarURL}); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

// PublicProfile is the shape the profile page renders: the user, their
// playlists, the social counters and the viewer's relationship to them.
// Social links are blanked unless the viewer is a confirmed friend.
type PublicProfile struct {
	User           *model.User        `json:"user"`
	Playlists      []model.Playlist   `json:"playlists"`
	FollowersCount int64              `json:"followersCount"`
	FollowingCount int64              `json:"followingCount"`
	FriendStatus   model.FriendStatus `json:"friendStatus"`
	IsFollowing    bool               `json:"isFollowing"`
	CanSeeSocials  bool               `json:"canSeeSocials"`
}

// GetProfile loads username's profile as seen by viewerID. viewerID is zero
// for anonymous visitors.
func (s *UserService) GetProfile(username string, viewerID uint) (*PublicProfile, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	playlists, err := s.playlistRepo.ListByOwner(user.ID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.relService.FollowCounts(user.ID)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{
		User:           user,
		Playlists:      playlists,
		FollowersCount: followers,
		FollowingCount: following,
		FriendStatus:   model.FriendStatusNone,
	}

	if viewerID != 0 && viewerID != user.ID {
		if profile.FriendStatus, err = s.relService.FriendStatusFor(viewerID, user.ID); err != nil {
			return nil, err
		}
		if profile.IsFollowing, err = s.relService.IsFollowing(viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	profile.CanSeeSocials = viewerID == user.ID || profile.FriendStatus == model.FriendStatusFriends

	if !profile.CanSeeSocials {
		user.SocialProfiles = model.SocialProfiles{}
	}
	return profile, nil
}

// ListDirectory returns the lightweight user listing used by the people
// browser and mention lookups.
func (s *UserService) ListDirectory() ([]model.User, error) {
	return s.userRepo.ListAll()
}

// ListPlaylistsByUsername resolves a username and returns their playlists.
func (s *UserService) ListPlaylistsByUsername(username string) ([]model.Playlist, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return s.playlistRepo.ListByOwner(user.ID)
}

// GetOwnProfile is GetProfile from the owner's seat: socials always
// included, plus the friend and pending-request summaries the dashboard
// shows.
type OwnProfile struct {
	PublicProfile
	Friends         []model.UserSummary `json:"friends"`
	PendingRequests []model.UserSummary `json:"pendingRequests"`
}

func (s *UserService) GetOwnProfile(userID uint) (*OwnProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.GetProfile(user.Username, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.relService.ListFriends(userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.relService.ListPendingRequests(userID)
	if err != nil {
		return nil, err
	}

	return &OwnProfile{
		PublicProfile:   *profile,
		Friends:         friends,
		PendingRequests: pending,
	}, nil
}
