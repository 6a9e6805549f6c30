package repository

import (
	"ghostmedia/backend/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.DB.Create(p).Error
}

func (r *PostRepository) GetByID(id string) (*models.Post, error) {
	var p models.Post
	err := r.DB.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *PostRepository) Save(p *models.Post) error {
	return r.DB.Save(p).Error
}

func (r *PostRepository) Delete(id string) error {
	return r.DB.Delete(&models.Post{}, "id = ?", id).Error
}

// ListAll returns a page of posts, newest first.
func (r *PostRepository) ListAll(page, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	if err := r.DB.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) ListByUser(username string) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Where("username = ?", username).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// Search returns a page of posts filtered by content, optionally scoped to
// one author. Used by the admin surface.
func (r *PostRepository) Search(username, search string, page, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.DB.Model(&models.Post{})
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

// DeleteAllForUser removes every post by the user. Used by the admin cascade
// when an account is deleted.
func (r *PostRepository) DeleteAllForUser(username string) (int64, error) {
	result := r.DB.Where("username = ?", username).Delete(&models.Post{})
	return result.RowsAffected, result.Error
}
