package repository

import (
	"ghostmedia/backend/internal/models"

	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{DB: db}
}

func (r *FriendshipRepository) Create(f *models.Friendship) error {
	return r.DB.Create(f).Error
}

func (r *FriendshipRepository) GetByID(id string) (*models.Friendship, error) {
	var f models.Friendship
	err := r.DB.First(&f, "id = ?", id).Error
	return &f, err
}

// FindByPair looks up the single record for an unordered pair, regardless of
// which side initiated it.
func (r *FriendshipRepository) FindByPair(a, b string) (*models.Friendship, error) {
	var f models.Friendship
	err := r.DB.Where("pair_key = ?", models.PairKey(a, b)).First(&f).Error
	return &f, err
}

func (r *FriendshipRepository) UpdateStatus(id string, status models.FriendshipStatus) error {
	return r.DB.Model(&models.Friendship{}).Where("id = ?", id).Update("status", status).Error
}

func (r *FriendshipRepository) Delete(id string) error {
	return r.DB.Delete(&models.Friendship{}, "id = ?", id).Error
}

func (r *FriendshipRepository) PendingReceived(username string) ([]models.Friendship, error) {
	var reqs []models.Friendship
	err := r.DB.Where("receiver = ? AND status = ?", username, models.FriendshipPending).
		Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *FriendshipRepository) PendingSent(username string) ([]models.Friendship, error) {
	var reqs []models.Friendship
	err := r.DB.Where("sender = ? AND status = ?", username, models.FriendshipPending).
		Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *FriendshipRepository) Friends(username string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.DB.Where("(sender = ? OR receiver = ?) AND status = ?",
		username, username, models.FriendshipAccepted).Find(&friendships).Error
	return friendships, err
}

// DeleteAllForUser removes every relationship the user is part of. Used by
// the admin cascade when an account is deleted.
func (r *FriendshipRepository) DeleteAllForUser(username string) (int64, error) {
	result := r.DB.Where("sender = ? OR receiver = ?", username, username).
		Delete(&models.Friendship{})
	return result.RowsAffected, result.Error
}
