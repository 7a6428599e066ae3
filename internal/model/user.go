package model

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleModerator  UserRole = "moderator"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// SocialProfiles holds the external profile links a user chooses to share.
// They are only serialized to confirmed friends.
type SocialProfiles struct {
	Spotify    string `gorm:"size:255" json:"spotify"`
	AppleMusic string `gorm:"size:255" json:"appleMusic"`
	YouTube    string `gorm:"size:255" json:"youtube"`
	Instagram  string `gorm:"size:255" json:"instagram"`
	Twitter    string `gorm:"size:255" json:"twitter"`
}

// swagger:model User
type User struct {
	BaseModel
	FirstName      string         `gorm:"size:50;not null" json:"firstName"`
	LastName       string         `gorm:"size:50;not null" json:"lastName"`
	Username       string         `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email          string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"size:100;not null" json:"-"`
	Bio            string         `gorm:"size:160" json:"bio"`
	AvatarURL      string         `gorm:"size:255" json:"avatarUrl"`
	SocialProfiles SocialProfiles `gorm:"embedded;embeddedPrefix:social_" json:"socialProfiles"`

	Role         UserRole `gorm:"size:20;not null;default:'user'" json:"role"`
	IsBanned     bool     `gorm:"default:false" json:"isBanned"`
	BannedReason string   `gorm:"size:255" json:"bannedReason,omitempty"`

	IsVerified      bool       `gorm:"default:false" json:"isVerified"`
	VerificationOTP string     `gorm:"size:6" json:"-"`
	OTPExpiry       *time.Time `json:"-"`

	LastLogin time.Time `gorm:"autoCreateTime" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the role grants access to the admin console.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// Summary is the reduced shape embedded in playlists, friend lists and
// request lists.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}
