package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// Fixed persistence keys. Every commit and restore goes through these two;
// no other code writes them.
const (
	stateKeyMode    = "auth_mode"
	stateKeyProfile = "current_user"
)

// AuthStateOptions groups dependencies for AuthState.
type AuthStateOptions struct {
	Store  ports.StateStore
	Logger *slog.Logger
}

// AuthState holds the active user profile and authentication mode. The
// persisted mode survives restarts; the in-memory profile is the working
// copy handlers read on every request. Profile and mode are only ever
// written together through Commit, so a reader can never observe a
// profile stored under the wrong mode.
type AuthState struct {
	store  ports.StateStore
	logger *slog.Logger

	mu      sync.RWMutex
	profile *domainauth.UserProfile
}

// NewAuthState constructs a new AuthState.
func NewAuthState(opts AuthStateOptions) *AuthState {
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "auth_state")
	}
	return &AuthState{
		store:  opts.Store,
		logger: logger,
	}
}

// Commit establishes an active user: it persists the profile and the mode
// as a pair and updates the in-memory copy. If the mode write fails after
// the profile write succeeded, the profile write is rolled back so the
// store never holds a half-committed pair.
func (s *AuthState) Commit(ctx context.Context, profile domainauth.UserProfile, mode domainauth.Mode) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := s.store.Set(ctx, stateKeyProfile, string(raw)); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	if err := s.store.Set(ctx, stateKeyMode, string(mode)); err != nil {
		if rmErr := s.store.Remove(ctx, stateKeyProfile); rmErr != nil && s.logger != nil {
			s.logger.Warn("rollback of profile write failed", "error", rmErr)
		}
		return fmt.Errorf("persist auth mode: %w", err)
	}

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return nil
}

// Demote persists ModeLocal without touching the stored profile. It is
// used when the remote identity path fails and the caller is about to
// restore whatever profile was previously persisted.
func (s *AuthState) Demote(ctx context.Context) error {
	if err := s.store.Set(ctx, stateKeyMode, string(domainauth.ModeLocal)); err != nil {
		return fmt.Errorf("persist auth mode: %w", err)
	}
	return nil
}

// ClearProfile removes the persisted profile and drops the in-memory
// copy. The mode key is deliberately left alone: the next login always
// probes the remote path first, so a stale local flag cannot lock
// anyone out, while a stale remote flag is simply confirmed or demoted
// on the next resolution.
func (s *AuthState) ClearProfile(ctx context.Context) error {
	if err := s.store.Remove(ctx, stateKeyProfile); err != nil {
		return fmt.Errorf("remove persisted profile: %w", err)
	}
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
	return nil
}

// Mode returns the persisted authentication mode, defaulting to
// ModeRemote when the key is absent or holds an unrecognized value.
func (s *AuthState) Mode(ctx context.Context) domainauth.Mode {
	raw, ok, err := s.store.Get(ctx, stateKeyMode)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("read auth mode failed, assuming remote", "error", err)
		}
		return domainauth.ModeRemote
	}
	if !ok {
		return domainauth.ModeRemote
	}
	mode := domainauth.Mode(raw)
	if !mode.Valid() {
		if s.logger != nil {
			s.logger.Warn("persisted auth mode is invalid, assuming remote", "value", raw)
		}
		return domainauth.ModeRemote
	}
	return mode
}

// Profile returns a copy of the in-memory active profile, or nil when no
// user is established.
func (s *AuthState) Profile() *domainauth.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// RestorePersisted loads the persisted profile into memory without
// writing anything back. A missing key yields (nil, nil); a corrupt
// payload is discarded and also yields (nil, nil) so a bad record can
// never wedge startup.
func (s *AuthState) RestorePersisted(ctx context.Context) (*domainauth.UserProfile, error) {
	raw, ok, err := s.store.Get(ctx, stateKeyProfile)
	if err != nil {
		return nil, fmt.Errorf("read persisted profile: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var profile domainauth.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		if s.logger != nil {
			s.logger.Warn("persisted profile is corrupt, discarding", "error", err)
		}
		return nil, nil
	}

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return &profile, nil
}

// dropInMemory clears only the working copy, leaving persistence intact.
func (s *AuthState) dropInMemory() {
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}
