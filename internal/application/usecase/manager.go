package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waste3d/pianoplatform-api/internal/domain"
)

// Manager owns every open Session of the process.
type Manager struct {
	deps        *SessionDeps
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(deps SessionDeps, idleTimeout time.Duration) *Manager {
	return &Manager{
		deps:        &deps,
		idleTimeout: idleTimeout,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) Open(ctx context.Context, user *domain.UserIdentity, isAdminContext bool) *Session {
	s := openSession(ctx, m.deps, user, isAdminContext)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.log.Debug("session opened", "access", s.access, "admin", isAdminContext)
	return s
}

// Get looks a session up for caller. Sessions opened by a signed-in user are
// only visible to that user.
func (m *Manager) Get(id string, caller *domain.UserIdentity) (*Session, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	m.mu.RLock()
	s, ok := m.sessions[sid]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.user != nil && (caller == nil || caller.ID != s.user.ID) {
		return nil, domain.ErrSessionOwner
	}
	return s, nil
}

// Close removes and tears down the session. Unknown ids are ignored.
func (m *Manager) Close(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	return s.Close()
}

func (m *Manager) CloseAll() int {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	return len(all)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions that have been idle longer than the idle timeout.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.deps.clock().Add(-m.idleTimeout)

	m.mu.RLock()
	var stale []uuid.UUID
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if m.Close(id) {
			n++
		}
	}
	if n > 0 {
		m.deps.Log.Info("closed idle sessions", "count", n)
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// everything that is still open.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
