package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legaldesk/internal/model"
)

// Manager keeps one Store per client session id. When the registry is full the
// least recently touched session is closed and dropped.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Store
	max      int
	health   model.HealthSnapshot
	log      *zap.Logger
}

func NewManager(maxSessions int, log *zap.Logger) *Manager {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Store),
		max:      maxSessions,
		log:      log.With(zap.String("component", "session")),
	}
}

// GetOrCreate returns the store for id, creating it when missing. An empty
// or malformed id gets a fresh one, which is returned alongside the store.
func (m *Manager) GetOrCreate(id string) (string, *Store) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	m.mu.Lock()
	if st, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return id, st
	}

	var evicted *Store
	if len(m.sessions) >= m.max {
		evicted = m.evictLocked()
	}
	st := newStore(id)
	health := m.health
	m.sessions[id] = st
	m.mu.Unlock()

	if evicted != nil {
		evicted.Close()
	}
	// New sessions start offline in their own state but should show the last
	// known health straight away.
	_, _ = st.Dispatch(SetBackendHealth(health))
	m.log.Debug("session created", zap.String("session_id", id))
	return id, st
}

// Get returns the store for id if it exists.
func (m *Manager) Get(id string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[id]
	return st, ok
}

// BroadcastHealth records snap and pushes it to every session.
func (m *Manager) BroadcastHealth(snap model.HealthSnapshot) {
	m.mu.Lock()
	m.health = snap
	stores := make([]*Store, 0, len(m.sessions))
	for _, st := range m.sessions {
		stores = append(stores, st)
	}
	m.mu.Unlock()

	for _, st := range stores {
		_, _ = st.Dispatch(SetBackendHealth(snap))
	}
}

// Health returns the last broadcast snapshot.
func (m *Manager) Health() model.HealthSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close cancels the background tasks of every session.
func (m *Manager) Close() {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.sessions))
	for _, st := range m.sessions {
		stores = append(stores, st)
	}
	m.mu.Unlock()
	for _, st := range stores {
		st.Close()
	}
}

func (m *Manager) evictLocked() *Store {
	var (
		oldestID string
		oldest   *Store
	)
	for id, st := range m.sessions {
		if oldest == nil || st.lastTouched().Before(oldest.lastTouched()) {
			oldestID, oldest = id, st
		}
	}
	if oldest != nil {
		delete(m.sessions, oldestID)
		m.log.Info("session evicted", zap.String("session_id", oldestID))
	}
	return oldest
}
