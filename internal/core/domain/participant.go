package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a connected student. Identity is the self-asserted display
// name; rejoining with the same name replaces the connection.
type Participant struct {
	Name     string    `json:"name"`
	Conn     uuid.UUID `json:"-"`
	JoinedAt time.Time `json:"joined_at"`
}

// Answer is one recorded submission for the current poll. At most one
// answer exists per connection per poll.
type Answer struct {
	Conn        uuid.UUID `json:"-"`
	StudentName string    `json:"studentName"`
	Option      string    `json:"answer"`
	SubmittedAt time.Time `json:"timestamp"`
}
