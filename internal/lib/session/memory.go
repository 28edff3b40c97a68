package session

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

// MemoryStore keeps sessions in process. Sessions do not survive a restart
// and are not shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   model.Session
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]memoryEntry{},
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s model.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.Token] = memoryEntry{session: s, expiresAt: m.now().Add(ttl)}
	m.evictLocked()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok || !m.now().Before(entry.expiresAt) {
		delete(m.sessions, token)
		return nil, ErrNotFound
	}
	s := entry.session
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) evictLocked() {
	now := m.now()
	for token, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, token)
		}
	}
}
