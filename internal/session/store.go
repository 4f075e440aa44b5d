// Package session keeps session attributes between simulated dialog turns,
// playing the part the managed dialog service plays in production.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionIDRequired is returned when a store call has no session ID.
var ErrSessionIDRequired = errors.New("session: session id required")

// Store loads and saves the attribute blob for a session. Unknown sessions
// load as empty attributes.
type Store interface {
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	Save(ctx context.Context, sessionID string, attrs map[string]string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (map[string]string, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.sessions[sessionID]), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, attrs map[string]string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = clone(attrs)
	return nil
}

func clone(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
