package models

import "gorm.io/gorm"

// UserStatus defines the moderation state of an account.
type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

// User represents a registered account. Other records reference users by
// username rather than by foreign key, so the username acts as the stable
// external identifier.
type User struct {
	gorm.Model
	Username     string     `gorm:"size:255;uniqueIndex;not null"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Avatar       string     `gorm:"size:512"`
	Status       UserStatus `gorm:"size:20;not null;default:'active';index"`
	Role         string     `gorm:"size:50;not null;default:'user';index"`
}
