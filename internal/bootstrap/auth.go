package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hrbrew/hrbrew-api/config"
	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	redisadapter "github.com/hrbrew/hrbrew-api/internal/adapters/redis"
	"github.com/hrbrew/hrbrew-api/internal/adapters/remoteidp"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// AuthStack bundles the authentication collaborators built from config.
type AuthStack struct {
	Provider  ports.IdentityProvider
	Source    *localauth.Source
	Directory *localauth.Directory
	Admin     ports.PasswordAdmin
	States    ports.StateStore
	Sessions  ports.SessionStore
}

// BuildAuthStack wires the identity provider, the local fallback table,
// and the Redis-backed stores. A missing or unreachable provider is not
// fatal: the returned stack carries a provider whose sign-in always
// fails, which steers every login down the local fallback path.
func BuildAuthStack(ctx context.Context, cfg config.AuthConfig, client redis.UniversalClient, logger *slog.Logger) (*AuthStack, error) {
	if logger == nil {
		logger = slog.Default()
	}

	records, err := localauth.ParseRecords(cfg.Local.Raw)
	if err != nil {
		return nil, err
	}
	source := localauth.NewSource(records, cfg.Identifier)

	var provider ports.IdentityProvider
	if cfg.Remote.IssuerURL == "" {
		logger.Warn("remote identity provider not configured, logins use the local credential table")
		provider = unavailableProvider{}
	} else {
		p, provErr := remoteidp.NewProvider(ctx, remoteidp.ProviderConfig{
			IssuerURL:    cfg.Remote.IssuerURL,
			ClientID:     cfg.Remote.ClientID,
			ClientSecret: cfg.Remote.ClientSecret,
			Scope:        cfg.Remote.Scope,
		})
		if provErr != nil {
			logger.Warn("remote identity provider unreachable, logins use the local credential table",
				"issuer", cfg.Remote.IssuerURL, "error", provErr)
			provider = unavailableProvider{}
		} else {
			provider = p
		}
	}

	var admin ports.PasswordAdmin = unconfiguredPasswordAdmin{}
	if cfg.Remote.AdminURL != "" && cfg.Remote.AdminToken != "" {
		adminClient, adminErr := remoteidp.NewAdminClient(remoteidp.AdminClientConfig{
			BaseURL: cfg.Remote.AdminURL,
			Token:   cfg.Remote.AdminToken,
		})
		if adminErr != nil {
			return nil, adminErr
		}
		admin = adminClient
	}

	return &AuthStack{
		Provider:  provider,
		Source:    source,
		Directory: localauth.NewDirectory(source),
		Admin:     admin,
		States:    redisadapter.NewStateStore(client, "auth:"),
		Sessions:  redisadapter.NewSessionStoreWithPrefix(client, "session:"),
	}, nil
}

// unavailableProvider stands in when no remote identity provider is
// configured or discovery failed at startup.
type unavailableProvider struct{}

func (unavailableProvider) SignInWithPassword(context.Context, string, string) (domainauth.RemoteSession, error) {
	return domainauth.RemoteSession{}, errors.New("remote identity provider unavailable")
}

func (unavailableProvider) CurrentSession(context.Context) (*domainauth.RemoteSession, error) {
	return nil, nil
}

func (unavailableProvider) OnSessionChange(func(domainauth.SessionEvent, *domainauth.RemoteSession)) func() {
	return func() {}
}

func (unavailableProvider) SignOut(context.Context) error { return nil }

type unconfiguredPasswordAdmin struct{}

func (unconfiguredPasswordAdmin) SetPasswordByEmail(context.Context, string, string) error {
	return errors.New("password administration is not configured")
}
