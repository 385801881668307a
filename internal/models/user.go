package models

import "time"

// User roles.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User represents a platform account. IDs come from the identity provider,
// so they are opaque strings rather than serial integers.
type User struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex" json:"email"`
	FirstName       string    `gorm:"size:255" json:"first_name"`
	LastName        string    `gorm:"size:255" json:"last_name"`
	ProfileImageURL string    `gorm:"size:512" json:"profile_image_url"`
	Role            string    `gorm:"size:32;default:student" json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
