package dto

// RegisterRequest represents the user registration payload.
// Registration is idempotent: re-registering an existing email returns the
// existing user untouched.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@lifelearn.app"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret!"`
	Name     string `json:"name" binding:"required,max=64" example:"Jane Doe"`
	PhotoURL string `json:"photoUrl" binding:"omitempty,url"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@lifelearn.app"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// TokenResponse carries an issued session token
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn" example:"3600"`
	User      UserResponse `json:"user"`
}

// RegisterResponse reports the outcome of a registration attempt
type RegisterResponse struct {
	User     UserResponse `json:"user"`
	Existing bool         `json:"existing" example:"false"`
}
