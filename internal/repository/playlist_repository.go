package repository

import (
	"github.com/ManvithReddyyy/vinnu-app/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistFilter narrows a listing before the in-memory text match runs.
// An empty or "all" value means no constraint on that column.
type PlaylistFilter struct {
	Genre    string
	Provider string
	OwnerID  uint
}

type PlaylistRepository struct {
	DB *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{DB: db}
}

func (r *PlaylistRepository) preloaded() *gorm.DB {
	return r.DB.Preload("Owner").Preload("Genres").Preload("Tags").Preload("Likes")
}

func (r *PlaylistRepository) Create(p *model.Playlist) error {
	return r.DB.Create(p).Error
}

func (r *PlaylistRepository) FindByID(id uint) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.preloaded().First(&p, id).Error; err != nil {
		return nil, err
	}
	p.LikesCount = len(p.Likes)
	return &p, nil
}

// Update replaces the scalar columns plus the genre and tag child rows. The
// like set and counters are never touched here; they have their own paths.
func (r *PlaylistRepository) Update(p *model.Playlist, genres []model.PlaylistGenre, tags []model.PlaylistTag) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(p).Select("Title", "URL", "Provider", "CoverURL").Updates(p).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", p.ID).Delete(&model.PlaylistGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", p.ID).Delete(&model.PlaylistTag{}).Error; err != nil {
			return err
		}
		if len(genres) > 0 {
			if err := tx.Create(&genres).Error; err != nil {
				return err
			}
		}
		if len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the playlist and its child rows. Child deletes are explicit
// rather than left to FK cascade so the soft-deleting parent cannot orphan
// live genre, tag or like rows.
func (r *PlaylistRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, id).Error
	})
}

// DeleteByOwner removes every playlist a user owns, used by account
// deletion.
func (r *PlaylistRepository) DeleteByOwner(ownerID uint) error {
	var ids []uint
	if err := r.DB.Model(&model.Playlist{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

// List returns playlists matching the filter, newest first. Text search and
// non-default sorts happen in the service layer after this prefilter.
func (r *PlaylistRepository) List(filter PlaylistFilter) ([]model.Playlist, error) {
	q := r.preloaded().Order("playlists.created_at DESC")
	if filter.OwnerID != 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Provider != "" && filter.Provider != "all" {
		q = q.Where("provider = ?", filter.Provider)
	}
	if filter.Genre != "" && filter.Genre != "all" {
		q = q.Joins("JOIN playlist_genres ON playlist_genres.playlist_id = playlists.id").
			Where("playlist_genres.genre = ?", filter.Genre)
	}

	var playlists []model.Playlist
	if err := q.Find(&playlists).Error; err != nil {
		return nil, err
	}
	for i := range playlists {
		playlists[i].LikesCount = len(playlists[i].Likes)
	}
	return playlists, nil
}

func (r *PlaylistRepository) ListByOwner(ownerID uint) ([]model.Playlist, error) {
	return r.List(PlaylistFilter{OwnerID: ownerID})
}

func (r *PlaylistRepository) CountPlaylists() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Playlist{}).Count(&n).Error
	return n, err
}

// ---- likes ----

func (r *PlaylistRepository) HasLike(playlistID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.PlaylistLike{}).
		Where("playlist_id = ? AND user_id = ?", playlistID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PlaylistRepository) CreateLike(playlistID, userID uint) error {
	l := &model.PlaylistLike{PlaylistID: playlistID, UserID: userID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *PlaylistRepository) DeleteLike(playlistID, userID uint) error {
	return r.DB.Where("playlist_id = ? AND user_id = ?", playlistID, userID).
		Delete(&model.PlaylistLike{}).Error
}

func (r *PlaylistRepository) LikeCount(playlistID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.PlaylistLike{}).Where("playlist_id = ?", playlistID).Count(&n).Error
	return n, err
}

// ---- counters ----

// IncrementViews bumps the view counter with a column expression so
// concurrent requests never lose an increment to a read-modify-write race.
func (r *PlaylistRepository) IncrementViews(playlistID uint) error {
	res := r.DB.Model(&model.Playlist{}).Where("id = ?", playlistID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PlaylistRepository) IncrementClicks(playlistID uint) error {
	res := r.DB.Model(&model.Playlist{}).Where("id = ?", playlistID).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
