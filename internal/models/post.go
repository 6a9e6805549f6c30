package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a feed post. Ghost posts carry an expiration timestamp and
// are removed by the expiry scheduler once it passes.
type Post struct {
	ID         string `gorm:"primaryKey;size:36"`
	Username   string `gorm:"size:255;not null;index"`
	Content    string `gorm:"not null"`
	UserAvatar string `gorm:"size:512"`
	IsGhost    bool   `gorm:"not null;default:false"`
	ExpiresAt  *time.Time
	Edited     bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
