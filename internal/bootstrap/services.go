package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrbrew/hrbrew-api/config"
	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	"github.com/hrbrew/hrbrew-api/internal/data"
	"github.com/hrbrew/hrbrew-api/internal/devseed"
	"github.com/hrbrew/hrbrew-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Links     *service.LinkService
	Passwords *service.PasswordService
	Resolver  *service.SessionResolver
	Directory *localauth.Directory
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the full service graph: auth stack, repositories,
// and the portal services on top of them.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	stack, err := BuildAuthStack(ctx, cfg.Auth, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth stack: %w", err)
	}
	if cfg.IsDev {
		devseed.SeedDirectory(stack.Directory)
	}

	userRepo := &data.UserRepo{DB: deps.DB}
	linkRepo := &data.LinkRepo{DB: deps.DB}
	activityRepo := &data.ActivityRepo{DB: deps.DB}

	state := service.NewAuthState(service.AuthStateOptions{
		Store:  stack.States,
		Logger: logger,
	})

	resolver, err := service.NewSessionResolver(service.SessionResolverOptions{
		Provider: stack.Provider,
		Profiles: &data.ProfileLookup{Users: userRepo},
		State:    state,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build session resolver: %w", err)
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:    stack.Provider,
		Credentials: stack.Source,
		State:       state,
		Resolver:    resolver,
		Sessions:    stack.Sessions,
		SessionTTL:  time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	userSvc, err := service.NewUserService(service.UserServiceOptions{
		Users:    userRepo,
		Links:    linkRepo,
		Fallback: stack.Directory,
		State:    state,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build user service: %w", err)
	}

	linkSvc, err := service.NewLinkService(service.LinkServiceOptions{
		Links:    linkRepo,
		Activity: activityRepo,
		Fallback: stack.Directory,
		State:    state,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build link service: %w", err)
	}

	passwordSvc, err := service.NewPasswordService(service.PasswordServiceOptions{
		Admin:    stack.Admin,
		Users:    userRepo,
		Activity: activityRepo,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build password service: %w", err)
	}

	return ServiceContainer{
		Auth:      authSvc,
		Users:     userSvc,
		Links:     linkSvc,
		Passwords: passwordSvc,
		Resolver:  resolver,
		Directory: stack.Directory,
	}, nil
}

// ServiceOrchestrationConfig contains dependencies for the runtime loop.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts the session resolver and HTTP server,
// then blocks until SIGINT/SIGTERM and shuts down gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Eager resolution runs before the server accepts requests, so the
	// first request already sees the resolved auth mode.
	if err := cfg.Services.Resolver.Start(ctx); err != nil {
		logger.Warn("initial session resolution failed", "error", err)
	}
	defer cfg.Services.Resolver.Close()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
