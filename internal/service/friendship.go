package service

import (
	"errors"
	"fmt"
	"time"

	"ghostmedia/backend/internal/models"

	"gorm.io/gorm"
)

// FriendshipStore is the persistence surface the state machine needs. Lookups
// return gorm.ErrRecordNotFound for missing records; Create returns
// gorm.ErrDuplicatedKey when the unordered-pair uniqueness constraint trips.
type FriendshipStore interface {
	Create(f *models.Friendship) error
	GetByID(id string) (*models.Friendship, error)
	FindByPair(a, b string) (*models.Friendship, error)
	UpdateStatus(id string, status models.FriendshipStatus) error
	Delete(id string) error
	PendingReceived(username string) ([]models.Friendship, error)
	PendingSent(username string) ([]models.Friendship, error)
	Friends(username string) ([]models.Friendship, error)
	DeleteAllForUser(username string) (int64, error)
}

// FriendshipService governs the relationship state machine:
// none -> pending -> accepted, with declines, cancels and unfriends all
// deleting the record rather than keeping a tombstone status.
type FriendshipService struct {
	store  FriendshipStore
	notify Notifier
}

func NewFriendshipService(store FriendshipStore, notify Notifier) *FriendshipService {
	return &FriendshipService{store: store, notify: notify}
}

// StatusResult is the relationship between two users, resolved relative to
// the viewer: direction is "sent" when the viewer initiated a pending request.
type StatusResult struct {
	Status    string     `json:"status"`
	Direction string     `json:"direction,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// SendRequest creates a pending relationship. At most one non-deleted record
// may exist per unordered pair, so an existing pending-or-accepted record in
// either direction is a conflict. The pre-check gives precise error messages;
// the store's unique index is what actually guarantees uniqueness under
// concurrent senders.
func (s *FriendshipService) SendRequest(sender, receiver string) (*models.Friendship, error) {
	if sender == receiver {
		return nil, &BadRequestError{Reason: "Cannot send a friend request to yourself"}
	}

	existing, err := s.store.FindByPair(sender, receiver)
	if err == nil {
		return nil, conflictFor(existing, sender)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	f := &models.Friendship{
		Sender:   sender,
		Receiver: receiver,
		Status:   models.FriendshipPending,
	}
	if err := s.store.Create(f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent request for the same pair.
			if existing, lookupErr := s.store.FindByPair(sender, receiver); lookupErr == nil {
				return nil, conflictFor(existing, sender)
			}
			return nil, &ConflictError{Status: "pending", Message: "A request already exists for this pair"}
		}
		return nil, err
	}

	s.notify.EmitToUser(receiver, "friendRequestEvent", map[string]interface{}{
		"sender":    sender,
		"receiver":  receiver,
		"message":   fmt.Sprintf("%s sent you a friend request", sender),
		"requestId": f.ID,
	})
	s.notify.EmitToUser(sender, "friendRequestSent", map[string]interface{}{
		"receiver":  receiver,
		"requestId": f.ID,
	})

	return f, nil
}

func conflictFor(existing *models.Friendship, sender string) error {
	switch {
	case existing.Status == models.FriendshipAccepted:
		return &ConflictError{Status: "accepted", Message: "You are already friends with this user"}
	case existing.Sender == sender:
		return &ConflictError{Status: "pending", Message: "Friend request already sent"}
	default:
		return &ConflictError{Status: "received", Message: "This user has already sent you a request"}
	}
}

// Respond accepts or declines a pending request. Only the stored receiver may
// respond. Accepting keeps the record with status accepted; declining deletes
// it, returning the pair to "none".
func (s *FriendshipService) Respond(requestID, actor, action string) (string, error) {
	req, err := s.store.GetByID(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if req.Receiver != actor {
		return "", ErrForbidden
	}
	if req.Status != models.FriendshipPending {
		return "", &BadRequestError{Reason: "Request has already been handled"}
	}

	switch action {
	case "accept":
		if err := s.store.UpdateStatus(req.ID, models.FriendshipAccepted); err != nil {
			return "", err
		}
		s.notifyStatusChange(req.Sender, req.Receiver, "accepted",
			fmt.Sprintf("%s accepted your friend request", actor),
			fmt.Sprintf("You accepted %s's friend request", req.Sender),
		)
		return "accepted", nil

	case "decline":
		if err := s.store.Delete(req.ID); err != nil {
			return "", err
		}
		s.notifyStatusChange(req.Sender, req.Receiver, "declined",
			fmt.Sprintf("%s declined your friend request", actor),
			fmt.Sprintf("You declined %s's friend request", req.Sender),
		)
		return "declined", nil

	default:
		return "", &BadRequestError{Reason: "Invalid action"}
	}
}

// Cancel withdraws a pending request. Only the original sender may cancel,
// and only while the request is still pending. No notification is sent.
func (s *FriendshipService) Cancel(requestID, actor string) error {
	req, err := s.store.GetByID(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if req.Sender != actor {
		return ErrForbidden
	}
	if req.Status != models.FriendshipPending {
		return &BadRequestError{Reason: "Only pending requests can be cancelled"}
	}

	return s.store.Delete(req.ID)
}

// Unfriend removes an accepted friendship. Either party may remove it.
func (s *FriendshipService) Unfriend(friendshipID, actor string) error {
	f, err := s.store.GetByID(friendshipID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if f.Sender != actor && f.Receiver != actor {
		return ErrForbidden
	}
	if f.Status != models.FriendshipAccepted {
		return &BadRequestError{Reason: "This is not an active friendship"}
	}

	if err := s.store.Delete(f.ID); err != nil {
		return err
	}

	other := f.Sender
	if other == actor {
		other = f.Receiver
	}
	s.notifyStatusChange(actor, other, "unfriended",
		fmt.Sprintf("You removed %s from your friends list", other),
		fmt.Sprintf("%s removed you from their friends list", actor),
	)
	return nil
}

// Status resolves the relationship between viewer and other. A pair with no
// record is {status: none}.
func (s *FriendshipService) Status(viewer, other string) (StatusResult, error) {
	f, err := s.store.FindByPair(viewer, other)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusResult{Status: "none"}, nil
	}
	if err != nil {
		return StatusResult{}, err
	}

	result := StatusResult{Status: string(f.Status), UpdatedAt: &f.UpdatedAt}
	if f.Status == models.FriendshipPending {
		if f.Sender == viewer {
			result.Direction = "sent"
		} else {
			result.Direction = "received"
		}
	}
	return result, nil
}

func (s *FriendshipService) PendingReceived(username string) ([]models.Friendship, error) {
	return s.store.PendingReceived(username)
}

func (s *FriendshipService) PendingSent(username string) ([]models.Friendship, error) {
	return s.store.PendingSent(username)
}

func (s *FriendshipService) Friends(username string) ([]models.Friendship, error) {
	return s.store.Friends(username)
}

// notifyStatusChange tells both parties' rooms about a transition, with a
// message phrased for each side.
func (s *FriendshipService) notifyStatusChange(first, second, action, toFirst, toSecond string) {
	usernames := []string{first, second}
	s.notify.EmitToUser(first, "friendStatusChange", map[string]interface{}{
		"usernames": usernames,
		"action":    action,
		"message":   toFirst,
	})
	s.notify.EmitToUser(second, "friendStatusChange", map[string]interface{}{
		"usernames": usernames,
		"action":    action,
		"message":   toSecond,
	})
}
