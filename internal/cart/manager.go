package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	cart     *Cart
	lastSeen time.Time
}

// Manager owns one cart per browsing session. Sessions are identified by an
// opaque id handed to the client and expire after the configured idle TTL.
// It is injected wherever carts are needed rather than held as a package
// global, so tests and concurrent sessions stay isolated.
type Manager struct {
	mu       sync.Mutex
	maxItems int
	ttl      time.Duration
	sessions map[string]*session
}

// NewManager creates a session cart registry. A ttl of 0 or less disables
// expiry.
func NewManager(maxItems int, ttl time.Duration) *Manager {
	return &Manager{
		maxItems: maxItems,
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// NewSession allocates a fresh session id with an empty cart.
func (m *Manager) NewSession() string {
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &session{cart: New(m.maxItems), lastSeen: time.Now()}
	return id
}

// Get returns the cart for the session, creating it on first use. Expired
// sessions are swept opportunistically.
func (m *Manager) Get(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked(time.Now())

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{cart: New(m.maxItems)}
		m.sessions[sessionID] = s
	}
	s.lastSeen = time.Now()
	return s.cart
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PurgeExpired drops sessions idle for longer than the TTL.
func (m *Manager) PurgeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked(time.Now())
}

func (m *Manager) purgeLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
