// Package auth owns the OAuth session triple and keeps it valid.
package auth

import (
	"sync"
	"time"
)

// Session is the OAuth credential triple for the remote service.
// The access token is only trusted while now < Expiry.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// Valid reports whether the access token can still be used.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && !s.Expiry.IsZero() && now.Before(s.Expiry)
}

// Store persists the session outside the regular settings file, so the
// triple survives settings export/import. Only the auth package and the
// login/logout flows write to it.
type Store interface {
	// Load returns the persisted session. A store with no session
	// returns the zero Session and no error.
	Load() (Session, error)

	// Save replaces the persisted session.
	Save(Session) error

	// Clear removes the persisted session.
	Clear() error
}

// MemoryStore is an in-process Store used by tests and as a fallback
// when no keyring backend is available.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	set     bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return Session{}, nil
	}
	return m.session, nil
}

// Save implements Store.
func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.set = true
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.set = false
	return nil
}
