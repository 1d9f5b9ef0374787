package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// SessionResolverOptions groups dependencies for SessionResolver.
type SessionResolverOptions struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileLookup
	State    *AuthState
	Logger   *slog.Logger
}

// SessionResolver keeps AuthState consistent with the identity provider.
// It runs one eager resolution at startup and then re-resolves on every
// session-change notification. Resolution is a pure function of the
// current remote session and the persisted state, so replaying the same
// event is harmless.
type SessionResolver struct {
	provider ports.IdentityProvider
	profiles ports.ProfileLookup
	state    *AuthState
	logger   *slog.Logger

	unsubscribe func()
}

// NewSessionResolver constructs a new SessionResolver.
func NewSessionResolver(opts SessionResolverOptions) (*SessionResolver, error) {
	if opts.Provider == nil {
		return nil, errors.New("Provider is required")
	}
	if opts.State == nil {
		return nil, errors.New("State is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "session_resolver")
	}

	return &SessionResolver{
		provider: opts.Provider,
		profiles: opts.Profiles,
		state:    opts.State,
		logger:   logger,
	}, nil
}

// Start performs the eager startup resolution and subscribes to
// provider session changes. The subscription callback may fire before
// or after the eager pass; both orders converge on the same state.
func (r *SessionResolver) Start(ctx context.Context) error {
	r.unsubscribe = r.provider.OnSessionChange(func(event domainauth.SessionEvent, sess *domainauth.RemoteSession) {
		r.Resolve(ctx, sess)
	})

	sess, err := r.provider.CurrentSession(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("startup session check failed, resolving without remote session", "error", err)
		}
		sess = nil
	}
	return r.Resolve(ctx, sess)
}

// Close detaches the resolver from provider notifications.
func (r *SessionResolver) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Resolve reconciles AuthState against the given remote session.
//
// With a live session the remote path wins: the directory profile for
// the session's user is committed under ModeRemote, or a minimal
// profile synthesized from the session when no directory row exists.
// If the directory lookup itself fails the mode is demoted to local
// and resolution falls through to the restore path.
//
// Without a live session, a persisted local-mode profile is restored
// into memory; under remote mode the in-memory profile is dropped and
// the user is simply unauthenticated until the next login.
func (r *SessionResolver) Resolve(ctx context.Context, sess *domainauth.RemoteSession) error {
	if sess != nil && sess.Live() {
		profile, err := r.lookupProfile(ctx, sess.UserID)
		if err == nil {
			if profile == nil {
				p := domainauth.MinimalProfile(sess.UserID, sess.Email)
				profile = &p
			}
			return r.state.Commit(ctx, *profile, domainauth.ModeRemote)
		}

		if r.logger != nil {
			r.logger.Warn("profile lookup failed, demoting to local mode",
				"user_id", sess.UserID,
				"error", err)
		}
		if demoteErr := r.state.Demote(ctx); demoteErr != nil {
			return demoteErr
		}
		_, restoreErr := r.state.RestorePersisted(ctx)
		return restoreErr
	}

	if r.state.Mode(ctx) == domainauth.ModeLocal {
		_, err := r.state.RestorePersisted(ctx)
		return err
	}

	r.state.dropInMemory()
	return nil
}

func (r *SessionResolver) lookupProfile(ctx context.Context, userID string) (*domainauth.UserProfile, error) {
	if r.profiles == nil {
		return nil, nil
	}
	return r.profiles.FetchProfileByID(ctx, userID)
}
