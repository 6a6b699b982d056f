package notify

import (
	"time"
)

// EventType represents the kind of notification to deliver
type EventType string

const (
	// EventTypeKudoReceived tells the recipient somebody sent them a kudo
	EventTypeKudoReceived EventType = "kudo_received"
	// EventTypeWelcome greets a freshly registered user (future use)
	EventTypeWelcome EventType = "welcome"
)

// KudoEvent is the notification event published to Kafka when a kudo
// is created
type KudoEvent struct {
	// MessageID is a unique identifier for this event (UUID v4),
	// used for deduplication to ensure exactly-once delivery
	MessageID string `json:"message_id"`

	// EventType specifies what kind of notification to send
	EventType EventType `json:"event_type"`

	// Timestamp when the event was created
	Timestamp time.Time `json:"timestamp"`

	// RecipientEmail is the address the notification goes to
	RecipientEmail string `json:"recipient_email"`

	// RecipientName is the recipient's first name for the greeting
	RecipientName string `json:"recipient_name"`

	// SenderName is the full name of the user who sent the kudo
	SenderName string `json:"sender_name"`

	// Preview is a shortened copy of the kudo message
	Preview string `json:"preview"`

	// Emoji is the emoji chosen for the kudo card
	Emoji string `json:"emoji"`
}

// Metadata is stored in Redis per delivered event for deduplication
type Metadata struct {
	SentAt    time.Time `json:"sent_at"`
	Recipient string    `json:"recipient"`
	EventType EventType `json:"event_type"`
}
