package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a token does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Store maps opaque tokens to authenticated user ids. The token is the only
// credential a client holds after login; whoever presents it is authorized.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

// MemoryStore is the default process-local Store. Sessions never expire and
// do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]int64)}
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}
	return userID, nil
}

// Destroy removes the session. Destroying an unknown token is not an error.
func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
