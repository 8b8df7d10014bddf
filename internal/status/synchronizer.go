// Package status serializes complaint and service request status transitions
// with chat availability and notification emission. There is deliberately no
// transition graph: admin tooling needs to revert or correct statuses, so any
// enum value may follow any other and a closed chat can reopen.
package status

import (
	"errors"
	"fmt"
	"log"

	"servigo/backend/internal/models"
	"servigo/backend/internal/storage"
)

var (
	// ErrInvalidStatus rejects values outside the scope's status enum.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrScopeNotFound rejects transitions on missing scopes.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrNoProvider rejects provider warnings on complaints without one.
	ErrNoProvider = errors.New("complaint has no provider")
)

// Notifier creates a durable notification for a user.
type Notifier interface {
	Notify(recipientID uint, text string) error
}

// Synchronizer commits status transitions and propagates them: persist first,
// then broadcast to the scope's room, then notify affected non-actors. A
// client can always confirm a received status_change by reading the scope
// back, because the write committed before the event was published.
type Synchronizer struct {
	Storage  storage.Storage
	Notifier Notifier
}

func NewSynchronizer(s storage.Storage, n Notifier) *Synchronizer {
	return &Synchronizer{Storage: s, Notifier: n}
}

// SetComplaintStatus validates and commits a complaint status, emits
// status_change to the complaint room and complaint_update to admin sessions,
// and notifies the non-actor participants.
func (s *Synchronizer) SetComplaintStatus(id uint, newStatus string, actorID uint) error {
	if !models.ValidComplaintStatus(newStatus) {
		return ErrInvalidStatus
	}

	complaint, err := s.Storage.GetComplaintByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrScopeNotFound
	}
	if err != nil {
		return err
	}

	if err := s.Storage.UpdateComplaintStatus(id, newStatus); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScopeNotFound
		}
		return err
	}

	s.broadcastComplaintStatus(id, newStatus)
	s.notifyParticipants(complaintParticipants(complaint), actorID,
		fmt.Sprintf("Your complaint '%s' is now %s", complaint.Title, newStatus))
	return nil
}

// ReplyToComplaint stores the admin's reply. A reply always moves the
// complaint to "reviewed", closing the chat.
func (s *Synchronizer) ReplyToComplaint(id uint, response string, adminID uint) error {
	complaint, err := s.Storage.GetComplaintByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrScopeNotFound
	}
	if err != nil {
		return err
	}

	if err := s.Storage.UpdateComplaintReply(id, response); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScopeNotFound
		}
		return err
	}

	s.broadcastComplaintStatus(id, models.ComplaintStatusReviewed)
	s.notifyParticipants(complaintParticipants(complaint), adminID,
		fmt.Sprintf("An admin replied to your complaint '%s'", complaint.Title))
	return nil
}

// WarnProvider records an admin warning against the complaint's provider and
// notifies them.
func (s *Synchronizer) WarnProvider(complaintID uint, adminID uint, message string) (*models.Warning, error) {
	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrScopeNotFound
	}
	if err != nil {
		return nil, err
	}
	if complaint.ProviderID == nil {
		return nil, ErrNoProvider
	}

	warning := &models.Warning{
		ComplaintID: complaintID,
		ProviderID:  *complaint.ProviderID,
		AdminID:     adminID,
		Message:     message,
	}
	if err := s.Storage.SaveWarning(warning); err != nil {
		return nil, err
	}

	if err := s.Notifier.Notify(*complaint.ProviderID,
		fmt.Sprintf("You received a warning regarding complaint '%s'", complaint.Title)); err != nil {
		log.Printf("ERROR: Failed to notify provider %d about warning: %v", *complaint.ProviderID, err)
	}
	return warning, nil
}

// SetRequestStatus validates and commits a service request status, emits
// status_change to the request room and notifies the non-actor participant.
// Moving away from "accepted" closes the chat; moving back reopens it.
func (s *Synchronizer) SetRequestStatus(id uint, newStatus string, actorID uint) error {
	if !models.ValidRequestStatus(newStatus) {
		return ErrInvalidStatus
	}

	request, err := s.Storage.GetServiceRequestByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrScopeNotFound
	}
	if err != nil {
		return err
	}

	if err := s.Storage.UpdateServiceRequestStatus(id, newStatus); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScopeNotFound
		}
		return err
	}

	key := models.RoomKey{Type: models.ScopeServiceRequest, ID: id}
	event, err := models.NewEvent(models.EventStatusChange, models.StatusChangePayload{
		RequestID: &id,
		Status:    newStatus,
	})
	if err == nil {
		if err := s.Storage.PublishEvent(models.Envelope{Room: key.String(), Event: event}); err != nil {
			log.Printf("WARNING: status_change broadcast for %s not published: %v", key, err)
		}
	}

	participants := []uint{request.UserID}
	if request.ProviderID != nil {
		participants = append(participants, *request.ProviderID)
	}
	s.notifyParticipants(participants, actorID,
		fmt.Sprintf("Your %s service request is now %s", request.Category, newStatus))
	return nil
}

func (s *Synchronizer) broadcastComplaintStatus(id uint, newStatus string) {
	key := models.RoomKey{Type: models.ScopeComplaint, ID: id}
	event, err := models.NewEvent(models.EventStatusChange, models.StatusChangePayload{
		ComplaintID: &id,
		Status:      newStatus,
	})
	if err == nil {
		if err := s.Storage.PublishEvent(models.Envelope{Room: key.String(), Event: event}); err != nil {
			log.Printf("WARNING: status_change broadcast for %s not published: %v", key, err)
		}
	}

	// Admin dashboards refresh their complaint lists on this signal.
	update, err := models.NewEvent(models.EventComplaintUpdate, nil)
	if err == nil {
		if err := s.Storage.PublishEvent(models.Envelope{RecipientRole: models.RoleAdmin, Event: update}); err != nil {
			log.Printf("WARNING: complaint_update broadcast not published: %v", err)
		}
	}
}

func (s *Synchronizer) notifyParticipants(participants []uint, actorID uint, text string) {
	for _, recipient := range participants {
		if recipient == actorID {
			continue
		}
		if err := s.Notifier.Notify(recipient, text); err != nil {
			log.Printf("ERROR: Failed to notify user %d: %v", recipient, err)
		}
	}
}

func complaintParticipants(c *models.Complaint) []uint {
	participants := []uint{c.UserID}
	if c.ProviderID != nil {
		participants = append(participants, *c.ProviderID)
	}
	return participants
}
