package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/thirdeye/pkg/model"
)

// Memory is an in-process Repository used when no Firestore project is
// configured, and by tests. Records survive only for the process lifetime,
// which is the degraded mode the service accepts when the datastore
// credential is absent.
type Memory struct {
	mu      sync.RWMutex
	records map[model.ConversationID][]*model.MemoryRecord
}

// NewMemory creates an empty in-process repository.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[model.ConversationID][]*model.MemoryRecord),
	}
}

func (r *Memory) PutMemory(ctx context.Context, record *model.MemoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = model.NewMemoryID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	clone := *record
	r.records[record.ConversationID] = append(r.records[record.ConversationID], &clone)
	return nil
}

func (r *Memory) RecentMemories(ctx context.Context, id model.ConversationID, limit int) ([]*model.MemoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[id]
	out := make([]*model.MemoryRecord, len(stored))
	copy(out, stored)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Memory) SearchMemories(ctx context.Context, id model.ConversationID, query string, limit int) ([]*model.MemoryRecord, error) {
	recent, err := r.RecentMemories(ctx, id, searchWindow)
	if err != nil {
		return nil, err
	}
	return filterMemories(recent, query, limit), nil
}

func (r *Memory) ClearMemories(ctx context.Context, id model.ConversationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	return nil
}
