// Package session carries the current user signal: an opaque stable user
// identifier, or none for anonymous local-only mode. Components take the
// identifier explicitly and may subscribe to changes so they can re-initialize
// their state when a different user signs in.
package session

import (
	"log/slog"
	"sync"
)

type Manager struct {
	mu       sync.Mutex
	userID   string
	signedIn bool
	subs     []func(userID string, signedIn bool)
}

func NewManager() *Manager {
	return &Manager{}
}

// CurrentUser returns the active user identifier. ok is false in anonymous
// mode.
func (m *Manager) CurrentUser() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID, m.signedIn
}

// SetUser switches the session to the given identity and notifies
// subscribers. Setting the same identity again is a no-op.
func (m *Manager) SetUser(userID string) {
	m.mu.Lock()
	if m.signedIn && m.userID == userID {
		m.mu.Unlock()
		return
	}
	m.userID = userID
	m.signedIn = true
	subs := append([]func(string, bool){}, m.subs...)
	m.mu.Unlock()

	slog.Info("Session user changed", slog.String("user_id", userID))
	for _, fn := range subs {
		fn(userID, true)
	}
}

// Clear returns the session to anonymous mode and notifies subscribers.
func (m *Manager) Clear() {
	m.mu.Lock()
	if !m.signedIn {
		m.mu.Unlock()
		return
	}
	m.userID = ""
	m.signedIn = false
	subs := append([]func(string, bool){}, m.subs...)
	m.mu.Unlock()

	slog.Info("Session cleared")
	for _, fn := range subs {
		fn("", false)
	}
}

// Subscribe registers fn to run on every identity change. Subscribers are
// invoked outside the manager lock.
func (m *Manager) Subscribe(fn func(userID string, signedIn bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}
