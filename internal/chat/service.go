// Package chat implements room-scoped message delivery: validation, the
// chat-open policy, durable append, room fan-out and notification of absent
// participants.
package chat

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"servigo/backend/internal/models"
	"servigo/backend/internal/storage"
)

// Notifier creates a durable notification for a user.
type Notifier interface {
	Notify(recipientID uint, text string) error
}

// Presence reports whether a user currently has a live session in a room.
// Implemented by the hub's room registry.
type Presence interface {
	HasUser(room string, userID uint) bool
}

// Service coordinates message persistence and fan-out.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
	Presence Presence

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new chat service.
func NewService(s storage.Storage, n Notifier, p Presence) *Service {
	return &Service{
		Storage:  s,
		Notifier: n,
		Presence: p,
		locks:    make(map[string]*sync.Mutex),
	}
}

// scopeState is the policy-relevant view of a chat scope.
type scopeState struct {
	open       bool
	label      string
	userID     uint
	providerID *uint
}

func (s *Service) loadScope(key models.RoomKey) (*scopeState, error) {
	switch key.Type {
	case models.ScopeComplaint:
		complaint, err := s.Storage.GetComplaintByID(key.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrScopeNotFound
		}
		if err != nil {
			return nil, err
		}
		return &scopeState{
			open:       complaint.ChatOpen(),
			label:      fmt.Sprintf("your complaint '%s'", complaint.Title),
			userID:     complaint.UserID,
			providerID: complaint.ProviderID,
		}, nil
	case models.ScopeServiceRequest:
		request, err := s.Storage.GetServiceRequestByID(key.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrScopeNotFound
		}
		if err != nil {
			return nil, err
		}
		return &scopeState{
			open:       request.ChatOpen(),
			label:      fmt.Sprintf("your %s service request", request.Category),
			userID:     request.UserID,
			providerID: request.ProviderID,
		}, nil
	}
	return nil, ErrScopeNotFound
}

// Authorize returns nil when the user may read or write the scope's chat:
// scope participants and admins only.
func (s *Service) Authorize(key models.RoomKey, userID uint, role string) error {
	state, err := s.loadScope(key)
	if err != nil {
		return err
	}
	if role == models.RoleAdmin {
		return nil
	}
	if state.userID == userID || (state.providerID != nil && *state.providerID == userID) {
		return nil
	}
	return ErrNotParticipant
}

// Send validates, persists and fans out one message. Validation and policy
// run before the write (fail fast); the broadcast happens only after the row
// is durable, and a per-scope lock makes broadcast order equal write order.
func (s *Service) Send(key models.RoomKey, senderID uint, body string) (*models.MessagePayload, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	state, err := s.loadScope(key)
	if err != nil {
		return nil, err
	}
	if !state.open {
		return nil, ErrChatClosed
	}

	sender, err := s.Storage.GetUserByID(senderID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	msg := &models.ChatMessage{SenderID: senderID, Body: body}
	if key.Type == models.ScopeComplaint {
		msg.ComplaintID = &key.ID
	} else {
		msg.ServiceRequestID = &key.ID
	}

	lock := s.scopeLock(key.String())
	lock.Lock()
	if err := s.Storage.AppendMessage(msg); err != nil {
		lock.Unlock()
		return nil, err
	}
	payload := msg.Payload(sender)

	event, err := models.NewEvent(models.EventNewMessage, payload)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if err := s.Storage.PublishEvent(models.Envelope{Room: key.String(), Event: event}); err != nil {
		// The message is durable; peers catch up on their next history fetch.
		log.Printf("WARNING: new_message broadcast for %s not published: %v", key, err)
	}
	lock.Unlock()

	go s.notifyAbsent(key, state, senderID)

	return &payload, nil
}

// History returns the scope's full message history, oldest first, with sender
// names resolved.
func (s *Service) History(key models.RoomKey) ([]models.MessagePayload, error) {
	if _, err := s.loadScope(key); err != nil {
		return nil, err
	}

	messages, err := s.Storage.ListMessages(key)
	if err != nil {
		return nil, err
	}

	senders := make(map[uint]*models.User)
	payloads := make([]models.MessagePayload, 0, len(messages))
	for i := range messages {
		sender, ok := senders[messages[i].SenderID]
		if !ok {
			sender, _ = s.Storage.GetUserByID(messages[i].SenderID)
			senders[messages[i].SenderID] = sender
		}
		payloads = append(payloads, messages[i].Payload(sender))
	}
	return payloads, nil
}

// notifyAbsent creates a notification for each scope participant other than
// the sender who is not watching the room right now.
func (s *Service) notifyAbsent(key models.RoomKey, state *scopeState, senderID uint) {
	text := fmt.Sprintf("New message on %s", state.label)
	room := key.String()

	recipients := []uint{state.userID}
	if state.providerID != nil {
		recipients = append(recipients, *state.providerID)
	}
	for _, recipient := range recipients {
		if recipient == senderID {
			continue
		}
		if s.Presence != nil && s.Presence.HasUser(room, recipient) {
			continue
		}
		if err := s.Notifier.Notify(recipient, text); err != nil {
			log.Printf("ERROR: Failed to notify user %d about %s: %v", recipient, room, err)
		}
	}
}

func (s *Service) scopeLock(room string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[room]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[room] = lock
	}
	return lock
}
