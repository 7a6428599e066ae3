package model

import "time"

// swagger:model Playlist
type Playlist struct {
	BaseModel
	OwnerID  uint   `gorm:"index;not null" json:"ownerId"`
	Owner    *User  `gorm:"foreignKey:OwnerID;constraint:false" json:"owner,omitempty"`
	Title    string `gorm:"size:160;not null" json:"title"`
	URL      string `gorm:"size:512;not null" json:"url"`
	Provider string `gorm:"size:30;not null" json:"provider"`
	CoverURL string `gorm:"size:512;not null" json:"coverUrl"`

	Genres []PlaylistGenre `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"genres"`
	Tags   []PlaylistTag   `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"tags"`
	Likes  []PlaylistLike  `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"-"`

	Views  int64 `gorm:"default:0" json:"views"`
	Clicks int64 `gorm:"default:0" json:"clicks"`

	// Derived, not a column.
	LikesCount int `gorm:"-" json:"likesCount"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// GenreNames flattens the genre rows for responses and filtering.
func (p *Playlist) GenreNames() []string {
	names := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		names = append(names, g.Genre)
	}
	return names
}

// LikedBy reports whether userID is in the like set.
func (p *Playlist) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

type PlaylistGenre struct {
	PlaylistID uint   `gorm:"primaryKey" json:"-"`
	Genre      string `gorm:"primaryKey;size:50" json:"genre"`
}

func (PlaylistGenre) TableName() string {
	return "playlist_genres"
}

// PlaylistTag is a freeform colored label attached by the owner.
type PlaylistTag struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaylistID uint   `gorm:"index;not null" json:"-"`
	Text       string `gorm:"size:50;not null" json:"text"`
	Color      string `gorm:"size:10;default:'#e0e7ff'" json:"color"`
}

func (PlaylistTag) TableName() string {
	return "playlist_tags"
}

// PlaylistLike is one like edge; the composite key keeps the like set free
// of duplicates.
type PlaylistLike struct {
	PlaylistID uint      `gorm:"primaryKey" json:"playlistId"`
	UserID     uint      `gorm:"primaryKey" json:"userId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PlaylistLike) TableName() string {
	return "playlist_likes"
}
