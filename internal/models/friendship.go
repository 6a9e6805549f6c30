package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// FriendshipPending means a friend request has been sent but not yet accepted.
	FriendshipPending FriendshipStatus = "pending"

	// FriendshipAccepted means the friend request was accepted, and the users are now friends.
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship represents the single relationship record for an unordered pair
// of users. Sender/Receiver preserve who initiated the request; PairKey is the
// normalized pair and carries the uniqueness constraint, so two concurrent
// senders cannot end up with two records for the same pair.
type Friendship struct {
	ID        string           `gorm:"primaryKey;size:36"`
	Sender    string           `gorm:"size:255;not null;index"`
	Receiver  string           `gorm:"size:255;not null;index"`
	PairKey   string           `gorm:"size:512;uniqueIndex;not null"`
	Status    FriendshipStatus `gorm:"size:20;not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.PairKey == "" {
		f.PairKey = PairKey(f.Sender, f.Receiver)
	}
	return nil
}

// PairKey returns the normalized key for an unordered username pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
