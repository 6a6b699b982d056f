package users

import "time"

// User is a directory entry shown in the collaborator panel
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the display data attached one-to-one to a user
type Profile struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Department     string `json:"department,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// UpdateProfileRequest is the request payload for updating the caller's profile
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	Department     *string `json:"department,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
