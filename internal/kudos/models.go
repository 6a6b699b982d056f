package kudos

import "time"

// Style controls how a kudo card is rendered
type Style struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	Emoji           string `json:"emoji"`
}

// AuthorProfile is the slice of the author's profile shown on a kudo card
type AuthorProfile struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Kudo is a message of appreciation sent from one user to another
type Kudo struct {
	KudoID      int64         `json:"kudo_id"`
	AuthorID    string        `json:"author_id"`
	RecipientID string        `json:"recipient_id"`
	Message     string        `json:"message"`
	Style       Style         `json:"style"`
	Author      AuthorProfile `json:"author"`
	CreatedAt   time.Time     `json:"created_at"`
}

// FeedFilter narrows and orders the kudo feed
type FeedFilter struct {
	// Sort is one of "date" (default, newest first), "sender" or "emoji"
	Sort string
	// Search matches message text and author first/last name
	Search string
}

// CreateKudoRequest is the request payload for sending a kudo
type CreateKudoRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Message     string `json:"message" binding:"required,max=500"`
	Style       Style  `json:"style"`
}

// FeedResponse is the envelope returned for feed queries
type FeedResponse struct {
	Kudos []Kudo `json:"kudos"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Default card style applied when the sender picks nothing
var defaultStyle = Style{
	BackgroundColor: "red",
	TextColor:       "white",
	Emoji:           "thumbsup",
}
