package models

import "time"

// Service request statuses. Chat is only available while the request is
// accepted; every other status rejects input.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
)

// RequestStatuses lists every valid service request status value.
var RequestStatuses = []string{
	RequestStatusPending,
	RequestStatusAccepted,
	RequestStatusRejected,
	RequestStatusCompleted,
}

// ServiceRequest is a customer's request for a home service (AC repair,
// cleaning, plumbing, ...). It is the second chat scope.
type ServiceRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	ProviderID  *uint      `gorm:"index" json:"provider_id,omitempty"`
	Category    string     `gorm:"type:varchar(100);not null" json:"category"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"type:varchar(20);default:pending" json:"status"`
	Rating      *int       `json:"rating,omitempty"`
	Review      string     `gorm:"type:text" json:"review,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChatOpen reports whether the request chat accepts new messages.
func (r *ServiceRequest) ChatOpen() bool {
	return r.Status == RequestStatusAccepted
}

// ValidRequestStatus reports whether s is a member of the request enum.
func ValidRequestStatus(s string) bool {
	for _, v := range RequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}
