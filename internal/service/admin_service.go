package service

import (
	"errors"
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"
	"github.com/ManvithReddyyy/vinnu-app/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService backs the moderation console: role changes, bans and the
// superadmin-only permanent account removal.
type AdminService struct {
	userRepo     *repository.UserRepository
	playlistRepo *repository.PlaylistRepository
	relRepo      *repository.RelationshipRepository
}

func NewAdminService(userRepo *repository.UserRepository, playlistRepo *repository.PlaylistRepository, relRepo *repository.RelationshipRepository) *AdminService {
	return &AdminService{userRepo: userRepo, playlistRepo: playlistRepo, relRepo: relRepo}
}

func (s *AdminService) ListUsers() ([]model.User, error) {
	return s.userRepo.ListForAdmin()
}

func (s *AdminService) ListPlaylists() ([]model.Playlist, error) {
	return s.playlistRepo.List(repository.PlaylistFilter{})
}

// DeletePlaylist removes any user's playlist from the moderation console.
func (s *AdminService) DeletePlaylist(callerID, playlistID uint) error {
	if _, err := s.playlistRepo.FindByID(playlistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPlaylistNotFound
		}
		return err
	}
	if err := s.playlistRepo.Delete(playlistID); err != nil {
		return err
	}
	logger.Log.Info("playlist removed by moderation",
		zap.Uint("admin_id", callerID),
		zap.Uint("playlist_id", playlistID))
	return nil
}

// Promote sets the target's role to admin or moderator. Superadmin cannot
// be granted through the API.
func (s *AdminService) Promote(callerID, targetID uint, role model.UserRole) (*model.User, error) {
	if callerID == targetID {
		return nil, util.ErrSelfAction
	}
	if role != model.RoleAdmin && role != model.RoleModerator {
		return nil, errors.New("role must be admin or moderator")
	}

	target, err := s.mustFindUser(targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == model.RoleSuperAdmin {
		return nil, util.ErrPermissionDenied
	}

	if err := s.userRepo.UpdateFields(targetID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	logger.Log.Info("role granted",
		zap.Uint("admin_id", callerID),
		zap.Uint("target_id", targetID),
		zap.String("role", string(role)))
	return s.userRepo.FindByID(targetID)
}

// Demote resets the target to the plain user role.
func (s *AdminService) Demote(callerID, targetID uint) (*model.User, error) {
	if callerID == targetID {
		return nil, util.ErrSelfAction
	}
	target, err := s.mustFindUser(targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == model.RoleSuperAdmin {
		return nil, util.ErrPermissionDenied
	}

	if err := s.userRepo.UpdateFields(targetID, map[string]interface{}{"role": model.RoleUser}); err != nil {
		return nil, err
	}
	logger.Log.Info("role revoked",
		zap.Uint("admin_id", callerID),
		zap.Uint("target_id", targetID))
	return s.userRepo.FindByID(targetID)
}

// Ban locks the account out of login. Admin-level accounts cannot be banned.
func (s *AdminService) Ban(callerID, targetID uint, reason string) (*model.User, error) {
	if callerID == targetID {
		return nil, util.ErrSelfAction
	}
	target, err := s.mustFindUser(targetID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if err := s.userRepo.UpdateFields(targetID, map[string]interface{}{
		"is_banned":     true,
		"banned_reason": strings.TrimSpace(reason),
	}); err != nil {
		return nil, err
	}
	logger.Log.Warn("user banned",
		zap.Uint("admin_id", callerID),
		zap.Uint("target_id", targetID),
		zap.String("reason", reason))
	return s.userRepo.FindByID(targetID)
}

func (s *AdminService) Unban(callerID, targetID uint) (*model.User, error) {
	if _, err := s.mustFindUser(targetID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(targetID, map[string]interface{}{
		"is_banned":     false,
		"banned_reason": "",
	}); err != nil {
		return nil, err
	}
	logger.Log.Info("user unbanned",
		zap.Uint("admin_id", callerID),
		zap.Uint("target_id", targetID))
	return s.userRepo.FindByID(targetID)
}

// DeleteUser permanently removes an account with everything attached to it:
// playlists with their child rows, then every social edge, then the user
// row itself. Superadmin only; superadmins and the caller's own account are
// refused.
func (s *AdminService) DeleteUser(callerID, targetID uint) error {
	if callerID == targetID {
		return util.ErrSelfAction
	}
	target, err := s.mustFindUser(targetID)
	if err != nil {
		return err
	}
	if target.Role == model.RoleSuperAdmin {
		return util.ErrPermissionDenied
	}

	if err := s.playlistRepo.DeleteByOwner(targetID); err != nil {
		return err
	}
	if err := s.relRepo.PurgeUser(targetID); err != nil {
		return err
	}
	if err := s.userRepo.HardDelete(targetID); err != nil {
		return err
	}

	logger.Log.Warn("user deleted",
		zap.Uint("admin_id", callerID),
		zap.Uint("target_id", targetID),
		zap.String("username", target.Username))
	return nil
}

// Stats is the admin dashboard headline numbers.
type Stats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalPlaylists int64 `json:"totalPlaylists"`
	BannedUsers    int64 `json:"bannedUsers"`
	AdminUsers     int64 `json:"adminUsers"`
}

func (s *AdminService) GetStats() (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalUsers, err = s.userRepo.CountUsers(); err != nil {
		return nil, err
	}
	if stats.TotalPlaylists, err = s.playlistRepo.CountPlaylists(); err != nil {
		return nil, err
	}
	if stats.BannedUsers, err = s.userRepo.CountBanned(); err != nil {
		return nil, err
	}
	if stats.AdminUsers, err = s.userRepo.CountAdmins(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AdminService) mustFindUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
