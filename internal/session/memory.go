package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time // zero means never
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	byTok  map[string]memoryEntry
	byUser map[string]map[string]struct{}
}

// NewMemoryStore returns an empty store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		byTok:  make(map[string]memoryEntry),
		byUser: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	token := newToken()
	entry := memoryEntry{userID: userID}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTok[token] = entry
	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[string]struct{})
	}
	s.byUser[userID][token] = struct{}{}
	return token, nil
}

func (s *MemoryStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.byTok[token]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.remove(token)
		return "", ErrNotFound
	}
	return entry.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.remove(token)
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.byUser[userID] {
		delete(s.byTok, token)
	}
	delete(s.byUser, userID)
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTok = make(map[string]memoryEntry)
	s.byUser = make(map[string]map[string]struct{})
	return nil
}

func (s *MemoryStore) remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byTok[token]
	if !ok {
		return
	}
	delete(s.byTok, token)
	if tokens := s.byUser[entry.userID]; tokens != nil {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(s.byUser, entry.userID)
		}
	}
}
