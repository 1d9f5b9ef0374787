package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	"github.com/hrbrew/hrbrew-api/internal/core"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

const linkFanOutLimit = 8

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users    core.UserRepository
	Links    core.LinkRepository
	Fallback *localauth.Directory
	State    *AuthState
	Logger   *slog.Logger
}

// UserService serves the admin directory. Under local mode, or when the
// database path fails, it answers from the in-memory fallback directory
// so the portal stays usable without Postgres.
type UserService struct {
	users    core.UserRepository
	links    core.LinkRepository
	fallback *localauth.Directory
	state    *AuthState
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Fallback == nil {
		return nil, errors.New("Fallback is required")
	}
	if opts.State == nil {
		return nil, errors.New("State is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "user_service")
	}

	return &UserService{
		users:    opts.Users,
		links:    opts.Links,
		fallback: opts.Fallback,
		state:    opts.State,
		logger:   logger,
	}, nil
}

// ListWithLinks returns every portal user with their links. The database
// result is merged with the built-in credential table entries, deduped
// by username, so the demo accounts always appear exactly once.
func (s *UserService) ListWithLinks(ctx context.Context, limit, offset int) ([]model.UserWithLinks, error) {
	if s.users == nil || s.state.Mode(ctx) == domainauth.ModeLocal {
		return s.fallback.Users(), nil
	}

	rows, err := s.users.List(ctx, limit, offset)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("user list query failed, serving fallback directory", "error", err)
		}
		return s.fallback.Users(), nil
	}

	out := make([]model.UserWithLinks, len(rows))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(linkFanOutLimit)
	for i, row := range rows {
		g.Go(func() error {
			links, err := s.links.ListByUser(gctx, row.ID)
			if err != nil {
				return err
			}
			entry := model.UserWithLinks{
				ID:         row.ID,
				Username:   row.Username,
				Email:      row.Email,
				FullName:   row.FullName,
				Department: row.Department,
				IsAdmin:    row.IsAdmin,
				Links:      derefLinks(links),
			}
			mu.Lock()
			out[i] = entry
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.Warn("link fan-out failed, serving fallback directory", "error", err)
		}
		return s.fallback.Users(), nil
	}

	return mergeWithFallback(out, s.fallback.Users()), nil
}

// GetByID fetches one user row, falling back to the directory.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.users != nil && s.state.Mode(ctx) != domainauth.ModeLocal {
		u, err := s.users.GetByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if s.logger != nil {
			s.logger.Warn("user lookup failed, trying fallback directory", "user_id", id, "error", err)
		}
	}
	for _, u := range s.fallback.Users() {
		if u.ID == id {
			return &model.User{
				ID:         u.ID,
				Username:   u.Username,
				Email:      u.Email,
				FullName:   u.FullName,
				Department: u.Department,
				IsAdmin:    u.IsAdmin,
			}, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

// Upsert creates or updates a profile row.
func (s *UserService) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.users == nil {
		return nil, errors.New("user repository is not configured")
	}
	return s.users.Upsert(ctx, req)
}

func derefLinks(links []*model.UserLink) []model.UserLink {
	out := make([]model.UserLink, 0, len(links))
	for _, l := range links {
		out = append(out, *l)
	}
	return out
}

// mergeWithFallback appends fallback entries whose username is not
// already present in the database result, then sorts by username for a
// stable directory listing.
func mergeWithFallback(primary, fallback []model.UserWithLinks) []model.UserWithLinks {
	seen := make(map[string]struct{}, len(primary))
	for _, u := range primary {
		seen[u.Username] = struct{}{}
	}
	out := primary
	for _, u := range fallback {
		if _, ok := seen[u.Username]; !ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
