package service

import (
	"errors"
	"fmt"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"gorm.io/gorm"
)

// RelationshipService implements the social graph: the follow toggle, the
// friend-request lifecycle and the derived status the profile page shows.
type RelationshipService struct {
	relRepo  *repository.RelationshipRepository
	userRepo *repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewRelationshipService(relRepo *repository.RelationshipRepository, userRepo *repository.UserRepository, mailer Mailer, cfg *config.Config) *RelationshipService {
	return &RelationshipService{relRepo: relRepo, userRepo: userRepo, mailer: mailer, cfg: cfg}
}

// FollowState is what the client needs to redraw the follow button and the
// counters after a toggle.
type FollowState struct {
	IsFollowing    bool  `json:"isFollowing"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// ToggleFollow flips the caller's follow edge towards targetID and returns
// the resulting state. Following yourself is rejected.
func (s *RelationshipService) ToggleFollow(callerID, targetID uint) (*FollowState, error) {
	if callerID == targetID {
		return nil, util.ErrSelfAction
	}
	target, err := s.mustFindUser(targetID)
	if err != nil {
		return nil, err
	}

	following, err := s.relRepo.IsFollowing(callerID, targetID)
	if err != nil {
		return nil, err
	}

	if following {
		err = s.relRepo.DeleteFollow(callerID, targetID)
	} else {
		err = s.relRepo.CreateFollow(callerID, targetID)
	}
	if err != nil {
		return nil, err
	}

	followers, err := s.relRepo.FollowerCount(target.ID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.relRepo.FollowingCount(target.ID)
	if err != nil {
		return nil, err
	}

	return &FollowState{
		IsFollowing:    !following,
		FollowersCount: followers,
		FollowingCount: followingCount,
	}, nil
}

func (s *RelationshipService) IsFollowing(callerID, targetID uint) (bool, error) {
	return s.relRepo.IsFollowing(callerID, targetID)
}

func (s *RelationshipService) FollowCounts(userID uint) (followers, following int64, err error) {
	if followers, err = s.relRepo.FollowerCount(userID); err != nil {
		return
	}
	following, err = s.relRepo.FollowingCount(userID)
	return
}

// SendFriendRequest opens a pending edge towards receiverID. If the
// receiver already has a pending request pointing the other way, the two
// requests collapse into a friendship immediately; the caller learns which
// outcome happened through the returned status.
func (s *RelationshipService) SendFriendRequest(senderID, receiverID uint) (model.FriendStatus, error) {
	if senderID == receiverID {
		return model.FriendStatusNone, util.ErrSelfAction
	}
	receiver, err := s.mustFindUser(receiverID)
	if err != nil {
		return model.FriendStatusNone, err
	}

	if friends, err := s.relRepo.IsFriend(senderID, receiverID); err != nil {
		return model.FriendStatusNone, err
	} else if friends {
		return model.FriendStatusNone, util.ErrAlreadyFriends
	}

	if pending, err := s.relRepo.HasPendingRequest(senderID, receiverID); err != nil {
		return model.FriendStatusNone, err
	} else if pending {
		return model.FriendStatusNone, util.ErrRequestAlreadySent
	}

	// Mutual interest: the receiver already asked first, so accept instead
	// of stacking a second pending edge.
	if reverse, err := s.relRepo.HasPendingRequest(receiverID, senderID); err != nil {
		return model.FriendStatusNone, err
	} else if reverse {
		if err := s.relRepo.CreateFriendship(senderID, receiverID); err != nil {
			return model.FriendStatusNone, err
		}
		s.notifyAccepted(receiver, senderID)
		return model.FriendStatusFriends, nil
	}

	if err := s.relRepo.CreateRequest(senderID, receiverID); err != nil {
		return model.FriendStatusNone, err
	}
	s.notifyRequested(receiver, senderID)
	return model.FriendStatusPendingSent, nil
}

// AcceptRequest turns a pending request from senderID into a friendship.
func (s *RelationshipService) AcceptRequest(callerID, senderID uint) error {
	if callerID == senderID {
		return util.ErrSelfAction
	}
	sender, err := s.mustFindUser(senderID)
	if err != nil {
		return err
	}

	pending, err := s.relRepo.HasPendingRequest(senderID, callerID)
	if err != nil {
		return err
	}
	if !pending {
		return util.ErrNoPendingRequest
	}

	if err := s.relRepo.CreateFriendship(callerID, senderID); err != nil {
		return err
	}
	s.notifyAccepted(sender, callerID)
	return nil
}

// RejectRequest drops a pending request from senderID. Rejecting a request
// that no longer exists is a no-op.
func (s *RelationshipService) RejectRequest(callerID, senderID uint) error {
	if _, err := s.mustFindUser(senderID); err != nil {
		return err
	}
	return s.relRepo.DeleteRequest(senderID, callerID)
}

// CancelRequest withdraws the caller's own pending request. Idempotent.
func (s *RelationshipService) CancelRequest(callerID, receiverID uint) error {
	if _, err := s.mustFindUser(receiverID); err != nil {
		return err
	}
	return s.relRepo.DeleteRequest(callerID, receiverID)
}

// RemoveFriend deletes both sides of a friendship. Removing someone who is
// not a friend is a no-op, which lets the pair immediately re-request.
func (s *RelationshipService) RemoveFriend(callerID, friendID uint) error {
	if callerID == friendID {
		return util.ErrSelfAction
	}
	if _, err := s.mustFindUser(friendID); err != nil {
		return err
	}
	return s.relRepo.DeleteFriendship(callerID, friendID)
}

// FriendStatusFor derives the one-sided relationship state callerID has
// with targetID.
func (s *RelationshipService) FriendStatusFor(callerID, targetID uint) (model.FriendStatus, error) {
	if callerID == 0 || callerID == targetID {
		return model.FriendStatusNone, nil
	}

	if friends, err := s.relRepo.IsFriend(callerID, targetID); err != nil {
		return model.FriendStatusNone, err
	} else if friends {
		return model.FriendStatusFriends, nil
	}
	if sent, err := s.relRepo.HasPendingRequest(callerID, targetID); err != nil {
		return model.FriendStatusNone, err
	} else if sent {
		return model.FriendStatusPendingSent, nil
	}
	if received, err := s.relRepo.HasPendingRequest(targetID, callerID); err != nil {
		return model.FriendStatusNone, err
	} else if received {
		return model.FriendStatusPendingReceived, nil
	}
	return model.FriendStatusNone, nil
}

// CanSeeSocials gates the social profile links: only confirmed friends (and
// the owner) see them.
func (s *RelationshipService) CanSeeSocials(callerID, targetID uint) (bool, error) {
	if callerID != 0 && callerID == targetID {
		return true, nil
	}
	status, err := s.FriendStatusFor(callerID, targetID)
	if err != nil {
		return false, err
	}
	return status == model.FriendStatusFriends, nil
}

func (s *RelationshipService) ListFriends(userID uint) ([]model.UserSummary, error) {
	friends, err := s.relRepo.GetFriends(userID)
	if err != nil {
		return nil, err
	}
	return summarize(friends), nil
}

func (s *RelationshipService) ListPendingRequests(userID uint) ([]model.UserSummary, error) {
	senders, err := s.relRepo.GetPendingReceived(userID)
	if err != nil {
		return nil, err
	}
	return summarize(senders), nil
}

func (s *RelationshipService) mustFindUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *RelationshipService) notifyRequested(receiver *model.User, senderID uint) {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return
	}
	subject := fmt.Sprintf("%s sent you a friend request on Vinnu", sender.Username)
	text := fmt.Sprintf("Hi %s,\n\n@%s wants to be friends on Vinnu. Open your requests to respond:\n%s/requests\n",
		receiver.FirstName, sender.Username, s.cfg.Server.FrontendURL)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p><strong>@%s</strong> wants to be friends on Vinnu.</p><p><a href="%s/requests">Open your requests</a> to respond.</p>`,
		receiver.FirstName, sender.Username, s.cfg.Server.FrontendURL)
	sendAsync(s.mailer, receiver.Email, subject, html, text)
}

func (s *RelationshipService) notifyAccepted(recipient *model.User, accepterID uint) {
	accepter, err := s.userRepo.FindByID(accepterID)
	if err != nil {
		return
	}
	subject := fmt.Sprintf("%s accepted your friend request", accepter.Username)
	text := fmt.Sprintf("Hi %s,\n\n@%s accepted your friend request on Vinnu. You can now see each other's social links.\n",
		recipient.FirstName, accepter.Username)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p><strong>@%s</strong> accepted your friend request on Vinnu. You can now see each other's social links.</p>`,
		recipient.FirstName, accepter.Username)
	sendAsync(s.mailer, recipient.Email, subject, html, text)
}

func summarize(users []model.User) []model.UserSummary {
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
