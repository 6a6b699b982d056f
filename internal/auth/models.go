package auth

import "time"

// User is the identity record returned to callers. The password hash never
// leaves this package.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the display data attached one-to-one to a user.
type Profile struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Department     string `json:"department,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// RegisterRequest is the registration form payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// LoginRequest is the login form payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ErrorResponse is the structured failure payload for auth endpoints.
// Fields echoes back submitted values so the form can repopulate.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
