package service

import (
	"errors"

	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/scheduler"

	"gorm.io/gorm"
)

// PostStore is the persistence surface for feed posts.
type PostStore interface {
	Create(p *models.Post) error
	GetByID(id string) (*models.Post, error)
	Save(p *models.Post) error
	Delete(id string) error
	ListAll(page, limit int) ([]models.Post, int64, error)
	ListByUser(username string) ([]models.Post, error)
	DeleteAllForUser(username string) (int64, error)
}

// PostService handles feed posts. Ghost posts with an expiration date are
// hard-deleted by the scheduler when they expire.
type PostService struct {
	store  PostStore
	notify Notifier
	sched  ExpiryScheduler
}

func NewPostService(store PostStore, notify Notifier, sched ExpiryScheduler) *PostService {
	return &PostService{store: store, notify: notify, sched: sched}
}

// Create persists a post, broadcasts it to every connected client, and arms
// the expiry timer for ghost posts carrying an expiration date.
func (s *PostService) Create(p *models.Post) error {
	if p.Username == "" || p.Content == "" {
		return &BadRequestError{Reason: "Username and content are required"}
	}

	if err := s.store.Create(p); err != nil {
		return err
	}

	s.notify.Broadcast("postAdded", p)

	if p.IsGhost && p.ExpiresAt != nil {
		id := p.ID
		s.sched.Arm(scheduler.KindPost, id, *p.ExpiresAt, func() error {
			return s.expirePost(id)
		})
	}
	return nil
}

// expirePost runs at timer fire. The re-read guards against acting on stale
// state: a post the author already deleted, or edited out of ghost mode, is
// left alone.
func (s *PostService) expirePost(id string) error {
	p, err := s.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !p.IsGhost {
		return nil
	}

	if err := s.store.Delete(p.ID); err != nil {
		return err
	}

	s.notify.Broadcast("postDeleted", map[string]interface{}{
		"id":     p.ID,
		"reason": "expired",
	})
	return nil
}

// Update edits a post. Only the author may edit.
func (s *PostService) Update(id, actor, content string, isGhost bool) (*models.Post, error) {
	p, err := s.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Username != actor {
		return nil, ErrForbidden
	}

	p.Content = content
	p.IsGhost = isGhost
	p.Edited = true
	if err := s.store.Save(p); err != nil {
		return nil, err
	}

	s.notify.Broadcast("postUpdated", p)
	return p, nil
}

// Delete removes a post. Only the author may delete.
func (s *PostService) Delete(id, actor string) error {
	p, err := s.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if p.Username != actor {
		return ErrForbidden
	}

	if err := s.store.Delete(p.ID); err != nil {
		return err
	}

	s.notify.Broadcast("postDeleted", map[string]interface{}{
		"id":     p.ID,
		"reason": "deleted",
	})
	return nil
}

func (s *PostService) ListAll(page, limit int) ([]models.Post, int64, error) {
	return s.store.ListAll(page, limit)
}

func (s *PostService) ListByUser(username string) ([]models.Post, error) {
	return s.store.ListByUser(username)
}
