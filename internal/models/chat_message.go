package models

import "time"

// ChatMessage is a persisted chat message scoped to either a complaint or a
// service request (exactly one of the two foreign keys is set). Messages are
// immutable once created; the table is append-only per scope.
type ChatMessage struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ComplaintID      *uint     `gorm:"index:idx_scope_msg" json:"complaint_id,omitempty"`
	ServiceRequestID *uint     `gorm:"index:idx_scope_msg" json:"service_request_id,omitempty"`
	SenderID         uint      `gorm:"not null" json:"sender_id"`
	Body             string    `gorm:"type:text;not null" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// MessagePayload is the wire shape of a message, both in REST responses and in
// new_message events. Sender username and role are denormalized so clients
// never need a second lookup.
type MessagePayload struct {
	ID               uint      `json:"id"`
	ComplaintID      *uint     `json:"complaint_id,omitempty"`
	ServiceRequestID *uint     `json:"service_request_id,omitempty"`
	SenderID         uint      `json:"sender_id"`
	SenderUsername   string    `json:"sender_username"`
	SenderRole       string    `json:"sender_role"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"created_at"`
}

// Payload builds the wire shape of the message for the given sender.
func (m *ChatMessage) Payload(sender *User) MessagePayload {
	p := MessagePayload{
		ID:               m.ID,
		ComplaintID:      m.ComplaintID,
		ServiceRequestID: m.ServiceRequestID,
		SenderID:         m.SenderID,
		SenderUsername:   "Unknown",
		SenderRole:       "unknown",
		Message:          m.Body,
		CreatedAt:        m.CreatedAt,
	}
	if sender != nil {
		p.SenderUsername = sender.Username
		p.SenderRole = sender.Role
	}
	return p
}
