package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Manager tracks live sessions by ID and enforces the session limit.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
}

// NewManager creates a Manager. max 0 means no limit.
func NewManager(max int) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Add registers a session and returns its ID. Sessions are normally
// constructed with their ID so their logger carries it from the start;
// a missing ID gets a fresh one here.
func (m *Manager) Add(s *Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.max > 0 && len(m.sessions) >= m.max {
		return "", ErrTooManySessions
	}
	if s.id == "" {
		s.id = newSessionID()
	}
	m.sessions[s.id] = s
	return s.id, nil
}

// Get looks a session up by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session from the registry. It does not close it.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func newSessionID() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
