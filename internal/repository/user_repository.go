package repository

import (
	"ghostmedia/backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.DB.Create(u).Error
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// SearchByPrefix finds users whose username starts with the given prefix,
// case-insensitively.
func (r *UserRepository) SearchByPrefix(prefix string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.DB.Where("username ILIKE ?", prefix+"%").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) Save(u *models.User) error {
	return r.DB.Save(u).Error
}

func (r *UserRepository) UpdateStatus(id uint, status models.UserStatus) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&user).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users, newest first, optionally filtered by a
// username/email search term.
func (r *UserRepository) List(search string, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.DB.Model(&models.User{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&models.User{}, id).Error
}
