package dto

import "time"

// UserResponse represents user information returned by the API
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"student@lifelearn.app"`
	Name      string    `json:"name" example:"Jane Doe"`
	Role      string    `json:"role" example:"none" enums:"none,instructor,admin"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoleResponse reports the role attached to an identity
type RoleResponse struct {
	Email string `json:"email" example:"student@lifelearn.app"`
	Role  string `json:"role" example:"admin" enums:"none,instructor,admin"`
}

// UpdateRoleRequest is the admin payload for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=none instructor admin" example:"instructor"`
}
