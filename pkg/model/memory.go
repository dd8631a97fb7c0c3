package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryID string

// NewMemoryID generates a new unique MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// ConversationID identifies the counterparty of a message thread,
// e.g. "whatsapp:+919876543210"
type ConversationID string

// MemoryRecord is a persisted description of a previously tagged image.
// Records are immutable once inserted; the only removal path is a bulk
// clear of all records for a conversation.
type MemoryRecord struct {
	ID             MemoryID
	ConversationID ConversationID
	Description    string
	Tag            string
	MediaKey       string
	CreatedAt      time.Time
}
