package repository

import (
	"ghostmedia/backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.DB.Create(m).Error
}

func (r *MessageRepository) GetByID(id string) (*models.Message, error) {
	var m models.Message
	err := r.DB.First(&m, "id = ?", id).Error
	return &m, err
}

// MarkRead flags the given messages as read, but only where receiver matches:
// a client cannot mark someone else's inbox.
func (r *MessageRepository) MarkRead(ids []string, receiver string) (int64, error) {
	result := r.DB.Model(&models.Message{}).
		Where("id IN ? AND receiver = ? AND read = ?", ids, receiver, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

// MarkConversationRead flags all unread messages from sender to receiver.
func (r *MessageRepository) MarkConversationRead(sender, receiver string) (int64, error) {
	result := r.DB.Model(&models.Message{}).
		Where("sender = ? AND receiver = ? AND read = ?", sender, receiver, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *MessageRepository) SoftDelete(id string) error {
	return r.DB.Model(&models.Message{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// Conversation returns the non-deleted messages between two users,
// oldest first.
func (r *MessageRepository) Conversation(a, b string) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Where(
		"((sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)) AND is_deleted = ?",
		a, b, b, a, false,
	).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// ForUser returns every non-deleted message the user sent or received,
// newest first.
func (r *MessageRepository) ForUser(username string) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Where("(sender = ? OR receiver = ?) AND is_deleted = ?", username, username, false).
		Order("created_at DESC").Find(&messages).Error
	return messages, err
}

// DeleteAllForUser removes every message the user sent or received. Used by
// the admin cascade when an account is deleted.
func (r *MessageRepository) DeleteAllForUser(username string) (int64, error) {
	result := r.DB.Where("sender = ? OR receiver = ?", username, username).
		Delete(&models.Message{})
	return result.RowsAffected, result.Error
}
