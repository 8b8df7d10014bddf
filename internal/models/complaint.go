package models

import "time"

// Complaint statuses. There is no enforced transition graph: admin tooling may
// set any value after any other to correct mistakes, so "reviewed" (which
// closes the chat) is reversible and a closed chat can reopen.
const (
	ComplaintStatusPending  = "pending"
	ComplaintStatusProgress = "progress"
	ComplaintStatusReviewed = "reviewed"
	ComplaintStatusResolved = "resolved"
)

// ComplaintStatuses lists every valid complaint status value.
var ComplaintStatuses = []string{
	ComplaintStatusPending,
	ComplaintStatusProgress,
	ComplaintStatusReviewed,
	ComplaintStatusResolved,
}

// Complaint is a user-filed complaint, optionally against a provider and/or
// tied to a service request. It is one of the two chat scopes.
type Complaint struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	ProviderID       *uint     `gorm:"index" json:"provider_id,omitempty"`
	ServiceRequestID *uint     `gorm:"index" json:"service_request_id,omitempty"`
	Title            string    `gorm:"type:varchar(200);not null" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Status           string    `gorm:"type:varchar(20);default:pending" json:"status"`
	AdminResponse    string    `gorm:"type:text" json:"admin_response,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ChatOpen reports whether the complaint chat accepts new messages.
// Only "reviewed" closes the chat; "resolved" has no chat effect.
func (c *Complaint) ChatOpen() bool {
	return c.Status != ComplaintStatusReviewed
}

// ValidComplaintStatus reports whether s is a member of the complaint enum.
func ValidComplaintStatus(s string) bool {
	for _, v := range ComplaintStatuses {
		if s == v {
			return true
		}
	}
	return false
}
