package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dcode-github/property_listing_web/client"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager hands out one Session per session id for the lifetime of the
// process. Sessions are created lazily and validated on first use.
type Manager struct {
	store TokenStore
	api   *client.Client

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(store TokenStore, api *client.Client) *Manager {
	return &Manager{
		store:    store,
		api:      api,
		sessions: make(map[string]*entry),
	}
}

func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the session for sid, creating and initializing it if needed.
func (m *Manager) Get(ctx context.Context, sid string) *Session {
	m.mu.Lock()
	e, ok := m.sessions[sid]
	if !ok {
		e = &entry{session: New(sid, m.store, m.api)}
		m.sessions[sid] = e
	}
	e.lastSeen = time.Now()
	m.mu.Unlock()

	e.session.Init(ctx)
	return e.session
}

// Forget drops the in-memory session; the stored token is left alone.
func (m *Manager) Forget(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep forgets sessions not used within idle and reports how many went.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for sid, e := range m.sessions {
		if time.Since(e.lastSeen) > idle {
			delete(m.sessions, sid)
			count++
		}
	}
	return count
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				log.Printf("Session sweep removed %d idle sessions", n)
			}
		}
	}
}
