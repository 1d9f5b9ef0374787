package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// ReasonInvalidCredentials is returned when neither the remote provider
// nor the local credential table accepts the submitted pair.
const ReasonInvalidCredentials = "invalid credentials"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider    ports.IdentityProvider
	Credentials ports.CredentialSource
	State       *AuthState
	Resolver    *SessionResolver
	Sessions    ports.SessionStore
	SessionTTL  time.Duration
	Logger      *slog.Logger
}

// AuthService orchestrates the cascading login flow: remote identity
// provider first, then the local credential table, with the winning
// path recorded in AuthState.
type AuthService struct {
	provider    ports.IdentityProvider
	credentials ports.CredentialSource
	state       *AuthState
	resolver    *SessionResolver
	sessions    ports.SessionStore
	sessionTTL  time.Duration
	logger      *slog.Logger
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Provider == nil {
		return nil, errors.New("Provider is required")
	}
	if opts.Credentials == nil {
		return nil, errors.New("Credentials is required")
	}
	if opts.State == nil {
		return nil, errors.New("State is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("Sessions is required")
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "auth_service")
	}

	return &AuthService{
		provider:    opts.Provider,
		credentials: opts.Credentials,
		state:       opts.State,
		resolver:    opts.Resolver,
		sessions:    opts.Sessions,
		sessionTTL:  ttl,
		logger:      logger,
	}, nil
}

// LoginResult contains the outcome of a login attempt. When OK is false,
// Reason carries a message safe to show the user; the reason never
// distinguishes which backend rejected the pair.
type LoginResult struct {
	OK      bool
	Reason  string
	Session *domainauth.Session
}

// Login attempts the remote identity provider first and falls back to
// the local credential table when the remote path rejects or errors.
// Backend failures on the remote path are downgraded to a fallback, not
// surfaced: the only errors returned are validation problems and
// failures persisting our own state.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if identifier == "" {
		return nil, apperrors.ValidationField("identifier", "identifier is required")
	}
	if secret == "" {
		return nil, apperrors.ValidationField("secret", "password is required")
	}

	// Remote path is always probed first, regardless of the persisted
	// mode. A stale local flag from a previous outage must not prevent
	// recovery once the provider is reachable again.
	remoteSess, err := s.provider.SignInWithPassword(ctx, identifier, secret)
	if err == nil {
		return s.establishRemote(ctx, remoteSess)
	}
	if s.logger != nil {
		s.logger.Warn("remote sign-in failed, trying local credentials",
			"identifier", identifier,
			"error", err)
	}

	profile, ok := s.credentials.Authenticate(identifier, secret)
	if !ok {
		return &LoginResult{OK: false, Reason: ReasonInvalidCredentials}, nil
	}

	if err := s.state.Commit(ctx, profile, domainauth.ModeLocal); err != nil {
		return nil, fmt.Errorf("commit local login: %w", err)
	}

	session, err := s.createSession(ctx, profile, domainauth.ModeLocal)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("local login succeeded", "username", profile.Username, "user_id", profile.ID)
	}
	return &LoginResult{OK: true, Session: session}, nil
}

// establishRemote turns a fresh remote session into committed state and
// a server session. The provider's signed-in notification normally runs
// the resolver synchronously during SignInWithPassword; if that left a
// profile behind it is reused, otherwise the resolver is invoked
// directly so the commit still happens before the cookie is issued.
func (s *AuthService) establishRemote(ctx context.Context, remoteSess domainauth.RemoteSession) (*LoginResult, error) {
	profile := s.state.Profile()
	if profile == nil || profile.ID != remoteSess.UserID {
		if s.resolver != nil {
			if err := s.resolver.Resolve(ctx, &remoteSess); err != nil {
				return nil, fmt.Errorf("resolve remote session: %w", err)
			}
			profile = s.state.Profile()
		}
	}
	if profile == nil {
		p := domainauth.MinimalProfile(remoteSess.UserID, remoteSess.Email)
		if err := s.state.Commit(ctx, p, domainauth.ModeRemote); err != nil {
			return nil, fmt.Errorf("commit remote login: %w", err)
		}
		profile = &p
	}

	session, err := s.createSession(ctx, *profile, domainauth.ModeRemote)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("remote login succeeded", "user_id", profile.ID)
	}
	return &LoginResult{OK: true, Session: session}, nil
}

func (s *AuthService) createSession(ctx context.Context, profile domainauth.UserProfile, mode domainauth.Mode) (*domainauth.Session, error) {
	session := domainauth.Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		Mode:      mode,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// GetSession retrieves a session by ID, removing it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout clears the active user. Under remote mode the provider sign-out
// is best effort: a provider failure is logged, never surfaced, and the
// local cleanup runs regardless. The persisted mode is left untouched.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.state.Mode(ctx) == domainauth.ModeRemote {
		if err := s.provider.SignOut(ctx); err != nil && s.logger != nil {
			s.logger.Warn("remote sign-out failed, clearing local state anyway", "error", err)
		}
	}

	if err := s.state.ClearProfile(ctx); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Status reports the active profile and mode for the status endpoint.
func (s *AuthService) Status(ctx context.Context) (*domainauth.UserProfile, domainauth.Mode) {
	return s.state.Profile(), s.state.Mode(ctx)
}
