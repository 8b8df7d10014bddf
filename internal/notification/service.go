// Package notification manages per-user notifications: durable rows in the
// store plus a lightweight realtime signal telling connected clients that
// something new exists. The signal carries no payload; clients re-fetch the
// list, so the store stays the single source of truth.
package notification

import (
	"errors"
	"log"

	"servigo/backend/internal/models"
	"servigo/backend/internal/storage"
)

// ErrNotFound is returned when a notification id does not exist for the user.
var ErrNotFound = errors.New("notification not found")

// Service handles notification persistence and signalling.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new notification service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// Notify persists a notification for the recipient and publishes the
// notification signal to their connected sessions. The signal is advisory; a
// publish failure is logged but does not fail the caller, since the row is
// already durable.
func (s *Service) Notify(recipientID uint, text string) error {
	n := &models.Notification{
		RecipientID: recipientID,
		Message:     text,
	}
	if err := s.Storage.CreateNotification(n); err != nil {
		return err
	}

	event, err := models.NewEvent(models.EventNotification, nil)
	if err != nil {
		return err
	}
	if err := s.Storage.PublishEvent(models.Envelope{RecipientID: recipientID, Event: event}); err != nil {
		log.Printf("WARNING: notification signal for user %d not published: %v", recipientID, err)
	}
	return nil
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(recipientID uint) ([]models.Notification, error) {
	return s.Storage.ListNotifications(recipientID)
}

// MarkRead flips a notification to read. The transition is one-way and
// idempotent: marking an already-read notification is a no-op.
func (s *Service) MarkRead(id, recipientID uint) error {
	_, err := s.Storage.MarkNotificationRead(id, recipientID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UnreadCount returns the recipient's unread notification count.
func (s *Service) UnreadCount(recipientID uint) (int64, error) {
	return s.Storage.UnreadNotificationCount(recipientID)
}
