package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/m-mizutani/thirdeye/pkg/model"
)

const (
	// DefaultCapacity bounds how many conversations keep live session
	// state; least recently used entries are evicted beyond this.
	DefaultCapacity = 1024

	// DefaultTTL expires idle sessions. Losing one only drops ephemeral
	// pending state, which the user recreates by resending.
	DefaultTTL = 12 * time.Hour
)

type entry struct {
	mu      sync.Mutex
	session *model.Session
}

// Store holds ephemeral per-conversation sessions. Acquire hands out the
// session together with its per-conversation lock, so concurrent webhook
// deliveries from the same sender are serialized for the whole turn.
type Store struct {
	mu  sync.Mutex
	lru *expirable.LRU[model.ConversationID, *entry]
}

// New creates a Store with the given capacity and idle TTL. Zero values
// select the defaults.
func New(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		lru: expirable.NewLRU[model.ConversationID, *entry](capacity, nil, ttl),
	}
}

// Acquire returns the session for id, creating it lazily, with its lock
// held. The caller must invoke release when the turn is finished.
func (s *Store) Acquire(id model.ConversationID) (*model.Session, func()) {
	s.mu.Lock()
	e, ok := s.lru.Get(id)
	if !ok {
		e = &entry{
			session: &model.Session{
				ConversationID: id,
				CreatedAt:      time.Now(),
			},
		}
		s.lru.Add(id, e)
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.session, e.mu.Unlock
}

// Clear drops the session entry for id.
func (s *Store) Clear(id model.ConversationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(id)
}

// Len reports how many conversations currently hold session state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
