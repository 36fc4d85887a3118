package memdb

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

type sessionEntry struct {
	session  model.Session
	expireAt time.Time
}

// MemorySessionStore 開發/測試用, 不跨 process
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: map[string]sessionEntry{},
		now:      time.Now,
	}
}

func copySession(s model.Session) *model.Session {
	s.Cart = s.Cart.Clone()
	s.Flashes = slices.Clone(s.Flashes)
	return &s
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if !entry.expireAt.IsZero() && m.now().After(entry.expireAt) {
		delete(m.sessions, id)
		return nil, repository.ErrSessionNotFound
	}
	s := copySession(entry.session)
	s.ID = id
	return s, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := sessionEntry{session: *copySession(*session)}
	if ttl > 0 {
		entry.expireAt = m.now().Add(ttl)
	}
	m.sessions[session.ID] = entry
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var _ repository.ISessionRepository = (*MemorySessionStore)(nil)
