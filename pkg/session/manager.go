package session

import (
	"sync"
	"time"

	"github.com/quizsecure/quizsecure/pkg/behavior"
)

// Manager owns all live sessions, keyed by student ID. A student has at
// most one session; uploading a frame for an unknown student creates one.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      behavior.Config
	now      func() time.Time
}

// NewManager creates a session manager; every new session gets a tracker
// built from cfg.
func NewManager(cfg behavior.Config) *Manager {
	return newManager(cfg, time.Now)
}

func newManager(cfg behavior.Config, now func() time.Time) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		now:      now,
	}
}

// GetOrCreate returns the student's session, creating it on first use.
func (m *Manager) GetOrCreate(studentID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[studentID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check: another frame upload may have won the race.
	if s, ok := m.sessions[studentID]; ok {
		return s
	}
	s = newSession(studentID, m.cfg, m.now)
	m.sessions[studentID] = s
	return s
}

// Get returns the student's session, or nil if none exists.
func (m *Manager) Get(studentID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[studentID]
}

// Reset resets the student's session in place. Returns false if the
// student has no session.
func (m *Manager) Reset(studentID string) bool {
	s := m.Get(studentID)
	if s == nil {
		return false
	}
	s.Reset()
	return true
}

// Remove deletes a session entirely.
func (m *Manager) Remove(studentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, studentID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Statuses returns the status of every live session.
func (m *Manager) Statuses() []Status {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Status, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Status())
	}
	return out
}
