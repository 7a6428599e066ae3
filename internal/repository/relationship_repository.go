package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository owns the follow, friendship and friend-request edge
// tables. Every mutation that touches both sides of a pair runs inside one
// transaction so a crash cannot leave the graph asymmetric.
type RelationshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewRelationshipRepository(db *gorm.DB, rdb *redis.Client) *RelationshipRepository {
	return &RelationshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// ---- follow edges ----

func (r *RelationshipRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *RelationshipRepository) CreateFollow(followerID, followeeID uint) error {
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *RelationshipRepository) DeleteFollow(followerID, followeeID uint) error {
	return r.DB.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

func (r *RelationshipRepository) FollowerCount(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *RelationshipRepository) FollowingCount(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// ---- friendship edges ----

// IsFriend answers friendship checks from the cached friend id set, so the
// hot paths (status probes, socials gating) stay off the edge table.
func (r *RelationshipRepository) IsFriend(userID, friendID uint) (bool, error) {
	ids, err := r.GetFriendIDsCached(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == friendID {
			return true, nil
		}
	}
	return false, nil
}

// CreateFriendship writes both mirrored friendship rows and clears any
// pending request edges between the pair, all in one transaction. This is
// the single place the pending -> friends transition happens, which keeps
// the mutual-exclusion invariant (a pair is never pending and friends at
// once).
func (r *RelationshipRepository) CreateFriendship(userID, friendID uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		edges := []model.Friendship{
			{UserID: userID, FriendID: friendID},
			{UserID: friendID, FriendID: userID},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}
		return tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, friendID, friendID, userID,
		).Delete(&model.FriendRequest{}).Error
	})

	if err == nil {
		r.invalidateFriendCache(userID, friendID)
	}
	return err
}

func (r *RelationshipRepository) DeleteFriendship(userID, friendID uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).
			Delete(&model.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND friend_id = ?", friendID, userID).
			Delete(&model.Friendship{}).Error
	})

	if err == nil {
		r.invalidateFriendCache(userID, friendID)
	}
	return err
}

// GetFriends loads the full user records on the other end of the caller's
// friendship edges.
func (r *RelationshipRepository) GetFriends(userID uint) ([]model.User, error) {
	var friends []model.User
	err := r.DB.
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("friendships.created_at DESC").
		Find(&friends).Error
	return friends, err
}

// GetFriendIDs returns the friend id set straight from the database.
func (r *RelationshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}

// GetFriendIDsCached serves the friend id set from Redis when possible,
// falling back to the database and repopulating the cache.
func (r *RelationshipRepository) GetFriendIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.GetFriendIDs(userID)
	}

	key := friendCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		ids := make([]uint, 0, len(cached))
		for _, s := range cached {
			id, convErr := strconv.ParseUint(s, 10, 32)
			if convErr == nil && id > 0 {
				ids = append(ids, uint(id))
			}
		}
		return ids, nil
	}

	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else {
		// Short-lived zero marker so an empty set doesn't hammer the DB.
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, nil
}

func (r *RelationshipRepository) invalidateFriendCache(ids ...uint) {
	if r.Redis == nil {
		return
	}
	for _, id := range ids {
		r.Redis.Del(r.ctx, friendCacheKey(id))
	}
}

func friendCacheKey(userID uint) string {
	return fmt.Sprintf("relation:friends:%d", userID)
}

// ---- friend-request edges ----

func (r *RelationshipRepository) HasPendingRequest(senderID, receiverID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Count(&count).Error
	return count > 0, err
}

func (r *RelationshipRepository) CreateRequest(senderID, receiverID uint) error {
	req := &model.FriendRequest{SenderID: senderID, ReceiverID: receiverID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(req).Error
}

func (r *RelationshipRepository) DeleteRequest(senderID, receiverID uint) error {
	return r.DB.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&model.FriendRequest{}).Error
}

// GetPendingReceived loads the users who have asked userID to be friends.
func (r *RelationshipRepository) GetPendingReceived(userID uint) ([]model.User, error) {
	var senders []model.User
	err := r.DB.
		Joins("JOIN friend_requests ON friend_requests.sender_id = users.id").
		Where("friend_requests.receiver_id = ?", userID).
		Order("friend_requests.created_at DESC").
		Find(&senders).Error
	return senders, err
}

// ---- cleanup ----

// PurgeUser removes every edge that references the user, in one transaction.
// Called when a superadmin permanently deletes an account.
func (r *RelationshipRepository) PurgeUser(userID uint) error {
	var friendIDs []uint
	if ids, err := r.GetFriendIDs(userID); err == nil {
		friendIDs = ids
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR friend_id = ?", userID, userID).
			Delete(&model.Friendship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Delete(&model.FriendRequest{}).Error; err != nil {
			return err
		}
		// Likes the user placed on other people's playlists go too, so their
		// like counts stop counting a dead account.
		return tx.Where("user_id = ?", userID).
			Delete(&model.PlaylistLike{}).Error
	})

	if err == nil {
		r.invalidateFriendCache(append(friendIDs, userID)...)
	}
	return err
}
