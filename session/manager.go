package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/secretpiano/util"
)

var ErrNotFound = errors.New("session not found")

// Manager keeps independent sessions by id. Every session gets its own copy
// of the config, so nothing is shared between players except the key table,
// which is read-only.
type Manager struct {
	newConfig func() Config

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager calls newConfig for every session it creates, so each one can
// get its own audio player.
func NewManager(newConfig func() Config) *Manager {
	return &Manager{
		newConfig: newConfig,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := New(m.newConfig())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	s.Close()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns session ids sorted as strings.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byString := make(map[string]bool, len(m.sessions))
	for id := range m.sessions {
		byString[id.String()] = true
	}
	return util.SortedKeys(byString)
}

// CloseAll closes and forgets every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
