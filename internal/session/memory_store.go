package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const (
	memoryStoreMaxSize = 60000 // maximum number of sessions to hold in memory
)

type memoryStore struct {
	ttl           time.Duration
	maxSize       int
	sessions      map[sessionKey]*Session
	evictionQueue []sessionKey
	mu            sync.Mutex

	generateKey func() ([32]byte, error)
}

func NewMemoryStore(ttl time.Duration) *memoryStore {
	return &memoryStore{
		ttl:      ttl,
		maxSize:  memoryStoreMaxSize,
		sessions: make(map[sessionKey]*Session),
	}
}

func (m *memoryStore) Save(_ context.Context, s *Session) (string, error) {
	m.mu.Lock()
	defer func() { m.collectGarbage(); m.mu.Unlock() }()

	for {
		generateKey := generateSessionID
		if m.generateKey != nil {
			generateKey = m.generateKey
		}
		keyBytes, err := generateKey()
		if err != nil {
			return "", &StoreError{fmt.Errorf("failed to generate session id: %w", err)}
		}
		key := base64.RawURLEncoding.EncodeToString(keyBytes[:])
		if _, ok := m.sessions[sessionKey(key)]; ok {
			continue
		}

		// Enforce maximum size.
		for len(m.sessions) == m.maxSize {
			oldest := m.evictionQueue[0]
			m.evictionQueue = m.evictionQueue[1:]
			delete(m.sessions, oldest)
		}

		s.expiresAt = time.Now().Add(m.ttl)
		m.sessions[sessionKey(key)] = s
		m.evictionQueue = append(m.evictionQueue, sessionKey(key))
		return key, nil
	}
}

func (m *memoryStore) Get(_ context.Context, id string) (*Session, bool, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionKey(id)]
	m.collectGarbage()
	m.mu.Unlock()

	if !ok || s.expiresAt.Before(time.Now()) {
		return nil, false, nil
	}
	return s, true, nil
}

func (m *memoryStore) Update(_ context.Context, id string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[sessionKey(id)]
	if !ok || cur.expiresAt.Before(time.Now()) {
		return &StoreError{fmt.Errorf("session '%s' not found", id)}
	}

	// The update keeps the original deadline: refreshing tokens must not
	// extend the session lifetime.
	s.expiresAt = cur.expiresAt
	m.sessions[sessionKey(id)] = s
	return nil
}

func (m *memoryStore) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, sessionKey(id))
	m.collectGarbage()
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) collectGarbage() {
	var evictionQueue []sessionKey
	for _, key := range m.evictionQueue {
		s, ok := m.sessions[key]
		if !ok {
			continue
		}
		if time.Now().Before(s.expiresAt) {
			evictionQueue = append(evictionQueue, key)
		} else {
			delete(m.sessions, key)
		}
	}
	m.evictionQueue = evictionQueue
}

// generateSessionID generates a random 32-byte key, delivered to the
// browser only inside the HTTP-only session cookie.
func generateSessionID() ([32]byte, error) {
	var b [32]byte
	_, err := rand.Read(b[:])
	return b, err
}
