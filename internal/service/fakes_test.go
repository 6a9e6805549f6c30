package service

import (
	"sync"
	"time"

	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recordedEvent struct {
	Username string
	Event    string
	Payload  interface{}
}

// recordingNotifier captures emitted events instead of delivering them.
type recordingNotifier struct {
	events     []recordedEvent
	broadcasts []recordedEvent
}

func (n *recordingNotifier) EmitToUser(username, event string, payload interface{}) {
	n.events = append(n.events, recordedEvent{Username: username, Event: event, Payload: payload})
}

func (n *recordingNotifier) Broadcast(event string, payload interface{}) {
	n.broadcasts = append(n.broadcasts, recordedEvent{Event: event, Payload: payload})
}

func (n *recordingNotifier) received(username, event string) bool {
	for _, ev := range n.events {
		if ev.Username == username && ev.Event == event {
			return true
		}
	}
	return false
}

func (n *recordingNotifier) broadcasted(event string) bool {
	for _, ev := range n.broadcasts {
		if ev.Event == event {
			return true
		}
	}
	return false
}

// captureScheduler records armed timers so tests can fire them synchronously.
type captureScheduler struct {
	fires []func() error
}

func (s *captureScheduler) Arm(kind scheduler.Kind, id string, fireAt time.Time, onFire func() error) {
	s.fires = append(s.fires, onFire)
}

func (s *captureScheduler) fireAll() {
	for _, f := range s.fires {
		f() //nolint:errcheck
	}
}

// fakeUsers resolves usernames against a fixed set.
type fakeUsers struct {
	known map[string]bool
}

func newFakeUsers(usernames ...string) *fakeUsers {
	known := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		known[u] = true
	}
	return &fakeUsers{known: known}
}

func (f *fakeUsers) GetByUsername(username string) (*models.User, error) {
	if !f.known[username] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.User{Username: username}, nil
}

// fakeFriendshipStore is an in-memory FriendshipStore enforcing the same
// unordered-pair uniqueness the real unique index does.
type fakeFriendshipStore struct {
	mu   sync.Mutex
	byID map[string]*models.Friendship
}

func newFakeFriendshipStore() *fakeFriendshipStore {
	return &fakeFriendshipStore{byID: make(map[string]*models.Friendship)}
}

func (s *fakeFriendshipStore) Create(f *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(f.Sender, f.Receiver)
	for _, existing := range s.byID {
		if existing.PairKey == key {
			return gorm.ErrDuplicatedKey
		}
	}
	f.ID = uuid.NewString()
	f.PairKey = key
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	cp := *f
	s.byID[f.ID] = &cp
	return nil
}

func (s *fakeFriendshipStore) GetByID(id string) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *fakeFriendshipStore) FindByPair(a, b string) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(a, b)
	for _, f := range s.byID {
		if f.PairKey == key {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeFriendshipStore) UpdateStatus(id string, status models.FriendshipStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Status = status
	f.UpdatedAt = time.Now()
	return nil
}

func (s *fakeFriendshipStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *fakeFriendshipStore) PendingReceived(username string) ([]models.Friendship, error) {
	return s.filter(func(f *models.Friendship) bool {
		return f.Receiver == username && f.Status == models.FriendshipPending
	}), nil
}

func (s *fakeFriendshipStore) PendingSent(username string) ([]models.Friendship, error) {
	return s.filter(func(f *models.Friendship) bool {
		return f.Sender == username && f.Status == models.FriendshipPending
	}), nil
}

func (s *fakeFriendshipStore) Friends(username string) ([]models.Friendship, error) {
	return s.filter(func(f *models.Friendship) bool {
		return (f.Sender == username || f.Receiver == username) && f.Status == models.FriendshipAccepted
	}), nil
}

func (s *fakeFriendshipStore) DeleteAllForUser(username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, f := range s.byID {
		if f.Sender == username || f.Receiver == username {
			delete(s.byID, id)
			count++
		}
	}
	return count, nil
}

func (s *fakeFriendshipStore) filter(keep func(*models.Friendship) bool) []models.Friendship {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Friendship
	for _, f := range s.byID {
		if keep(f) {
			out = append(out, *f)
		}
	}
	return out
}

// fakeMessageStore is an in-memory MessageStore.
type fakeMessageStore struct {
	mu   sync.Mutex
	byID map[string]*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{byID: make(map[string]*models.Message)}
}

func (s *fakeMessageStore) Create(m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *fakeMessageStore) GetByID(id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMessageStore) MarkRead(ids []string, receiver string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, id := range ids {
		if m, ok := s.byID[id]; ok && m.Receiver == receiver && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

func (s *fakeMessageStore) MarkConversationRead(sender, receiver string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, m := range s.byID {
		if m.Sender == sender && m.Receiver == receiver && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

func (s *fakeMessageStore) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.IsDeleted = true
	return nil
}

func (s *fakeMessageStore) Conversation(a, b string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.byID {
		if m.IsDeleted {
			continue
		}
		if (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) ForUser(username string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.byID {
		if m.IsDeleted {
			continue
		}
		if m.Sender == username || m.Receiver == username {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) DeleteAllForUser(username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, m := range s.byID {
		if m.Sender == username || m.Receiver == username {
			delete(s.byID, id)
			count++
		}
	}
	return count, nil
}

// fakePostStore is an in-memory PostStore.
type fakePostStore struct {
	mu   sync.Mutex
	byID map[string]*models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{byID: make(map[string]*models.Post)}
}

func (s *fakePostStore) Create(p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *fakePostStore) GetByID(id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePostStore) Save(p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *fakePostStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *fakePostStore) ListAll(page, limit int) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *fakePostStore) ListByUser(username string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.byID {
		if p.Username == username {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePostStore) DeleteAllForUser(username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, p := range s.byID {
		if p.Username == username {
			delete(s.byID, id)
			count++
		}
	}
	return count, nil
}
