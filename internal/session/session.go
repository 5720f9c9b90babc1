// Package session owns the per-browsing-session state: the optional
// signed-in identity, the cart, the owner PIN elevation flag and the
// checkout in-flight guard. Sessions are passed explicitly to handlers
// rather than held as ambient globals so tests can build isolated ones.
package session

import (
	"context"
	"sync"
	"time"

	"savoria/internal/cart"
	"savoria/internal/domain"

	"github.com/lucsky/cuid"
)

// DefaultIdleTTL is how long a session may sit untouched before the
// sweeper reclaims it. Guest carts mint a session per tokenless request,
// so without expiry the map grows without bound.
const DefaultIdleTTL = 2 * time.Hour

type Session struct {
	Token     string
	Identity  *domain.Identity
	Cart      *cart.Cart
	CreatedAt time.Time

	mu         sync.Mutex
	elevated   bool
	inCheckout bool
	lastSeen   time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seenBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Lock serialises access to the session's mutable state. HTTP handlers
// hold it across a cart read-modify-write.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Elevate records a passed owner PIN challenge. The flag shares the
// session mutex because PIN verification and dashboard writes can land
// on the same session from concurrent requests.
func (s *Session) Elevate() {
	s.mu.Lock()
	s.elevated = true
	s.mu.Unlock()
}

func (s *Session) IsElevated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elevated
}

// BeginCheckout flips the in-flight guard. It returns false if a
// submission is already running, which is how a double-click on "place
// order" is kept from writing two orders.
func (s *Session) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inCheckout {
		return false
	}
	s.inCheckout = true
	return true
}

func (s *Session) EndCheckout() {
	s.mu.Lock()
	s.inCheckout = false
	s.mu.Unlock()
}

// Manager tracks live sessions by opaque token and reclaims idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session), idleTTL: DefaultIdleTTL}
}

// Create starts a session. identity may be nil for a guest browsing
// session; guests still get a cart.
func (m *Manager) Create(identity *domain.Identity) *Session {
	now := time.Now().UTC()
	s := &Session{
		Token:     cuid.New(),
		Identity:  identity,
		Cart:      cart.New(),
		CreatedAt: now,
		lastSeen:  now,
	}
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if ok {
		s.touch(time.Now().UTC())
	}
	return s, ok
}

// Sweep drops sessions idle past the TTL and reports how many went.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	reclaimed := 0
	for token, s := range m.sessions {
		if s.seenBefore(cutoff) {
			delete(m.sessions, token)
			reclaimed++
		}
	}
	return reclaimed
}

// StartSweeper runs Sweep on a ticker until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now.UTC())
		}
	}
}

// Destroy signs the session out. Destroying an unknown token is a no-op.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
