package models

import "time"

// Notification is a per-user notification row. Notifications are strictly
// additive; the only mutation is the one-way is_read transition.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Warning is an admin-issued warning to a provider, always tied to the
// complaint that triggered it.
type Warning struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;index" json:"complaint_id"`
	ProviderID  uint      `gorm:"not null;index" json:"provider_id"`
	AdminID     uint      `gorm:"not null" json:"admin_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
