package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dolthub/swiss"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

const (
	initialCapacity = 64
	maxIDAttempts   = 16
)

// Manager handles game session lifecycle.
// Sessions are keyed by lower-cased ID.
type Manager struct {
	sessions *swiss.Map[string, *service.Session]
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: swiss.NewMap[string, *service.Session](initialCapacity),
	}
}

// Create creates a new session with the given ID and configuration.
// An empty ID is replaced by a generated one. A nil rng uses the global source.
func (m *Manager) Create(id string, config *engine.GameConfig, rng engine.Rand) (*service.Session, error) {
	if strings.ContainsAny(id, " /\\?#") {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(config, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.uniqueSessionID()
		if err != nil {
			return nil, err
		}
	} else if m.sessions.Has(strings.ToLower(id)) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions.Put(strings.ToLower(id), session)

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions.Get(strings.ToLower(id))
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig, rng engine.Rand) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config, rng)
	}
	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, m.sessions.Count())
	m.sessions.Iter(func(_ string, session *service.Session) bool {
		result = append(result, session)
		return false
	})
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessions.Delete(strings.ToLower(id)) {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}

	session.Lock()
	session.LastAccessedAt = time.Now()
	session.Unlock()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var expired []string

	m.sessions.Iter(func(key string, session *service.Session) bool {
		session.Lock()
		lastAccess := session.LastAccessedAt
		session.Unlock()
		if lastAccess.Before(cutoff) {
			expired = append(expired, key)
		}
		return false
	})

	for _, key := range expired {
		m.sessions.Delete(key)
	}

	if len(expired) > 0 {
		log.Info().Int("removed", len(expired)).Dur("max_age", maxAge).Msg("expired sessions removed")
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions.Count()
}

// uniqueSessionID generates a 4-character ID not yet in use. Caller holds m.mu.
func (m *Manager) uniqueSessionID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := generateSessionID()
		if err != nil {
			return "", err
		}
		if !m.sessions.Has(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique session ID after %d attempts", maxIDAttempts)
}

// generateSessionID generates a random 4-character hex session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions.Has(strings.ToLower(id))
}
