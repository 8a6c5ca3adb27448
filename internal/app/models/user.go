package models

import (
	"time"
)

// Role defines a user's role in the marketplace
type Role string

const (
	// RoleNone is the default role assigned at registration
	RoleNone Role = "none"
	// RoleInstructor may submit courses
	RoleInstructor Role = "instructor"
	// RoleAdmin may approve or deny courses and manage users
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the closed set of roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleNone, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"student@lifelearn.app"`         // User's email address (unique)
	Password  string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Name      string    `json:"name" db:"name" example:"Jane Doe"`                        // User's display name
	Role      Role      `json:"role" db:"role" example:"instructor"`                      // User's role (none, instructor or admin)
	PhotoURL  *string   `json:"photoUrl,omitempty" db:"photo_url"`                        // URL of the user's avatar (nullable)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
