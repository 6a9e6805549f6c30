package service

import (
	"errors"
	"sort"
	"time"

	"ghostmedia/backend/internal/hub"
	"ghostmedia/backend/internal/models"
	"ghostmedia/backend/internal/scheduler"

	"gorm.io/gorm"
)

// MessageStore is the persistence surface for direct messages.
type MessageStore interface {
	Create(m *models.Message) error
	GetByID(id string) (*models.Message, error)
	MarkRead(ids []string, receiver string) (int64, error)
	MarkConversationRead(sender, receiver string) (int64, error)
	SoftDelete(id string) error
	Conversation(a, b string) ([]models.Message, error)
	ForUser(username string) ([]models.Message, error)
	DeleteAllForUser(username string) (int64, error)
}

// UserFinder is the minimal user lookup messaging needs.
type UserFinder interface {
	GetByUsername(username string) (*models.User, error)
}

// ExpiryScheduler arms one-shot deferred expiry actions.
type ExpiryScheduler interface {
	Arm(kind scheduler.Kind, id string, fireAt time.Time, onFire func() error)
}

// MessageService handles direct messages, including ghost messages that are
// soft-deleted by the scheduler if they were not read before expiring.
type MessageService struct {
	store  MessageStore
	users  UserFinder
	notify Notifier
	sched  ExpiryScheduler
}

func NewMessageService(store MessageStore, users UserFinder, notify Notifier, sched ExpiryScheduler) *MessageService {
	return &MessageService{store: store, users: users, notify: notify, sched: sched}
}

// Send persists a message, notifies both parties' rooms, and arms the expiry
// timer for ghost messages carrying an expiration date.
func (s *MessageService) Send(in hub.SendMessageInput) (*models.Message, error) {
	if in.Sender == "" || in.Receiver == "" || in.Content == "" {
		return nil, &BadRequestError{Reason: "Sender, receiver and content are required"}
	}

	if _, err := s.users.GetByUsername(in.Sender); err != nil {
		return nil, userLookupErr(err)
	}
	if _, err := s.users.GetByUsername(in.Receiver); err != nil {
		return nil, userLookupErr(err)
	}

	m := &models.Message{
		Sender:    in.Sender,
		Receiver:  in.Receiver,
		Content:   in.Content,
		IsGhost:   in.IsGhost,
		ExpiresAt: in.ExpirationDate,
	}
	if err := s.store.Create(m); err != nil {
		return nil, err
	}

	s.notify.EmitToUser(in.Receiver, "newMessage", m)
	s.notify.EmitToUser(in.Sender, "messageSent", m)

	if m.IsGhost && m.ExpiresAt != nil {
		id := m.ID
		s.sched.Arm(scheduler.KindMessage, id, *m.ExpiresAt, func() error {
			return s.expireMessage(id)
		})
	}

	return m, nil
}

// expireMessage runs at timer fire. It re-reads the record so it never acts
// on stale state: a message that was read, already deleted, or removed
// entirely is left alone.
func (s *MessageService) expireMessage(id string) error {
	m, err := s.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.Read || m.IsDeleted {
		return nil
	}

	if err := s.store.SoftDelete(m.ID); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"messageId": m.ID,
		"reason":    "expired",
	}
	s.notify.EmitToUser(m.Sender, "messageExpired", payload)
	s.notify.EmitToUser(m.Receiver, "messageExpired", payload)
	return nil
}

// MarkRead flags the given messages as read for their receiver. Only messages
// actually addressed to username are touched.
func (s *MessageService) MarkRead(messageIDs []string, username string) (int64, error) {
	if len(messageIDs) == 0 || username == "" {
		return 0, &BadRequestError{Reason: "Message ids and username are required"}
	}
	return s.store.MarkRead(messageIDs, username)
}

// Delete soft-deletes a message. Sender and receiver jointly own a message,
// so either may remove it.
func (s *MessageService) Delete(messageID, actor string) error {
	m, err := s.store.GetByID(messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if m.Sender != actor && m.Receiver != actor {
		return ErrForbidden
	}

	if err := s.store.SoftDelete(m.ID); err != nil {
		return err
	}

	payload := map[string]interface{}{"messageId": m.ID}
	s.notify.EmitToUser(m.Sender, "messageDeleted", payload)
	s.notify.EmitToUser(m.Receiver, "messageDeleted", payload)
	return nil
}

// History returns the conversation between two users oldest-first and marks
// the other party's messages to the viewer as read.
func (s *MessageService) History(viewer, other string) ([]models.Message, error) {
	if _, err := s.users.GetByUsername(viewer); err != nil {
		return nil, userLookupErr(err)
	}
	if _, err := s.users.GetByUsername(other); err != nil {
		return nil, userLookupErr(err)
	}

	messages, err := s.store.Conversation(viewer, other)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.MarkConversationRead(other, viewer); err != nil {
		return nil, err
	}
	return messages, nil
}

// ConversationSummary is one entry in a user's conversation list.
type ConversationSummary struct {
	RecipientID string    `json:"recipientId"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	Unread      int       `json:"unread"`
}

// Conversations folds a user's messages into per-correspondent summaries,
// newest first, with unread counts.
func (s *MessageService) Conversations(username string) ([]ConversationSummary, error) {
	messages, err := s.store.ForUser(username)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*ConversationSummary)
	for i := range messages {
		m := &messages[i]
		other := m.Sender
		if other == username {
			other = m.Receiver
		}

		summary, ok := byUser[other]
		if !ok {
			summary = &ConversationSummary{
				RecipientID: other,
				LastMessage: m.Content,
				Timestamp:   m.CreatedAt,
			}
			byUser[other] = summary
		} else if m.CreatedAt.After(summary.Timestamp) {
			summary.LastMessage = m.Content
			summary.Timestamp = m.CreatedAt
		}
		if m.Receiver == username && !m.Read {
			summary.Unread++
		}
	}

	summaries := make([]ConversationSummary, 0, len(byUser))
	for _, s := range byUser {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries, nil
}

// HandleSendMessage implements hub.InboundHandler for the sendMessage event.
func (s *MessageService) HandleSendMessage(in hub.SendMessageInput) error {
	_, err := s.Send(in)
	return err
}

// HandleMarkRead implements hub.InboundHandler for the markMessagesRead event.
func (s *MessageService) HandleMarkRead(messageIDs []string, username string) error {
	_, err := s.MarkRead(messageIDs, username)
	return err
}

func userLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
