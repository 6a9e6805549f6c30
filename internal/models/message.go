package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message represents a direct message between two users. Deletion is a soft
// delete so read-state and conversation history survive for the other party.
// Ghost messages expire unless they were read before the expiration time.
type Message struct {
	ID        string `gorm:"primaryKey;size:36"`
	Sender    string `gorm:"size:255;not null;index:idx_messages_pair"`
	Receiver  string `gorm:"size:255;not null;index:idx_messages_pair"`
	Content   string `gorm:"not null"`
	Read      bool   `gorm:"not null;default:false"`
	IsDeleted bool   `gorm:"not null;default:false"`
	IsGhost   bool   `gorm:"not null;default:false"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
