package models

import (
	"time"

	"github.com/lib/pq" // required for pq.StringArray
	"golang.org/x/crypto/bcrypt"
)

// Role values carried in the session token and denormalized into message payloads.
const (
	RoleUser     = "user"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User represents an account in the marketplace. The messaging core only reads
// users: it resolves senders, scope participants and roles. Profile editing
// lives outside this service.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Email        string         `json:"email,omitempty"`
	Role         string         `gorm:"type:varchar(20);default:user" json:"role"`
	Name         string         `json:"name,omitempty"`
	Location     string         `json:"location,omitempty"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills,omitempty"`
	// ProviderUniqueID is the human-facing provider code (e.g. "PROV-001").
	ProviderUniqueID string    `gorm:"uniqueIndex" json:"provider_unique_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
