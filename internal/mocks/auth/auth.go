package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.ProfileLookup    = (*MockProfileLookup)(nil)
	_ ports.StateStore       = (*MemoryStateStore)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// MockIdentityProvider simulates the remote identity backend. Tests set
// the Func fields for custom behavior; the zero value rejects every
// sign-in and reports no session.
type MockIdentityProvider struct {
	SignInFunc         func(ctx context.Context, identifier, secret string) (domainauth.RemoteSession, error)
	CurrentSessionFunc func(ctx context.Context) (*domainauth.RemoteSession, error)
	SignOutFunc        func(ctx context.Context) error

	mu       sync.Mutex
	subs     []func(domainauth.SessionEvent, *domainauth.RemoteSession)
	SignOuts int
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, identifier, secret string) (domainauth.RemoteSession, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, identifier, secret)
	}
	return domainauth.RemoteSession{}, errors.New("remote provider unavailable")
}

func (m *MockIdentityProvider) CurrentSession(ctx context.Context) (*domainauth.RemoteSession, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc(ctx)
	}
	return nil, nil
}

func (m *MockIdentityProvider) OnSessionChange(fn func(domainauth.SessionEvent, *domainauth.RemoteSession)) func() {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	idx := len(m.subs) - 1
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.subs[idx] = nil
		m.mu.Unlock()
	}
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.SignOuts++
	m.mu.Unlock()
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

// Emit delivers a session-change event to every subscriber, in order,
// on the caller's goroutine.
func (m *MockIdentityProvider) Emit(event domainauth.SessionEvent, sess *domainauth.RemoteSession) {
	m.mu.Lock()
	subs := append(([]func(domainauth.SessionEvent, *domainauth.RemoteSession))(nil), m.subs...)
	m.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(event, sess)
		}
	}
}

// MockProfileLookup resolves profiles from a fixed map. Err, when set,
// is returned for every lookup.
type MockProfileLookup struct {
	ByID map[string]domainauth.UserProfile
	Err  error

	mu    sync.Mutex
	Calls int
}

func (m *MockProfileLookup) FetchProfileByID(ctx context.Context, id string) (*domainauth.UserProfile, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.ByID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// MemoryStateStore is an in-memory ports.StateStore. FailSet and
// FailGet, when set to a key name, make operations on that key error.
type MemoryStateStore struct {
	mu      sync.Mutex
	data    map[string]string
	FailSet string
	FailGet string
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: make(map[string]string)}
}

func (m *MemoryStateStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.FailGet && key != "" {
		return "", false, errors.New("state store get failed")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStateStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.FailSet && key != "" {
		return errors.New("state store set failed")
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStateStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Snapshot returns a copy of the stored keys for assertions.
func (m *MemoryStateStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// MemorySessionStore is an in-memory ports.SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

var errSessionNotFound = errors.New("session not found")

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, errSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
