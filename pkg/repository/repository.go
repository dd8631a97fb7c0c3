package repository

import (
	"context"

	"github.com/m-mizutani/thirdeye/pkg/model"
)

// Repository defines the interface for long-term memory persistence.
// Implementations must be safe for concurrent use. Reads are best-effort
// from the router's point of view: callers degrade to "no memory
// available" on failure.
type Repository interface {
	// PutMemory saves a memory record
	PutMemory(ctx context.Context, record *model.MemoryRecord) error

	// RecentMemories retrieves up to limit records for a conversation,
	// newest first
	RecentMemories(ctx context.Context, id model.ConversationID, limit int) ([]*model.MemoryRecord, error)

	// SearchMemories retrieves records whose tag or description contains
	// query (case-insensitive), newest first
	SearchMemories(ctx context.Context, id model.ConversationID, query string, limit int) ([]*model.MemoryRecord, error)

	// ClearMemories removes all records for a conversation
	ClearMemories(ctx context.Context, id model.ConversationID) error
}
