package model

import "time"

// Relationships are stored as edge rows rather than arrays embedded in the
// user record. The composite primary keys make every edge a set member: a
// duplicate follow, friendship or request is a primary-key conflict, not a
// silent second entry.

// Follow is one ordered edge: follower -> followee.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey" json:"followerId"`
	FolloweeID uint      `gorm:"primaryKey" json:"followeeId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Follow) TableName() string {
	return "follows"
}

// Friendship is stored as two mirrored rows per confirmed pair, both written
// in a single transaction so the symmetry invariant cannot be half-applied.
type Friendship struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	FriendID  uint      `gorm:"primaryKey" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendRequest is one pending edge: sender -> receiver. Resolved requests
// (accepted, rejected or cancelled) are deleted, so a pair can hold at most
// one pending edge per direction and none once a friendship exists.
type FriendRequest struct {
	SenderID   uint      `gorm:"primaryKey" json:"senderId"`
	ReceiverID uint      `gorm:"primaryKey" json:"receiverId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendStatus is the relationship between two users seen from one side.
type FriendStatus string

const (
	FriendStatusNone            FriendStatus = "none"
	FriendStatusPendingSent     FriendStatus = "pending_sent"
	FriendStatusPendingReceived FriendStatus = "pending_received"
	FriendStatusFriends         FriendStatus = "friends"
)
