package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	"github.com/hrbrew/hrbrew-api/internal/core"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

// LinkServiceOptions groups dependencies for LinkService.
type LinkServiceOptions struct {
	Links    core.LinkRepository
	Activity core.ActivityRepository
	Fallback *localauth.Directory
	State    *AuthState
	Logger   *slog.Logger
}

// LinkService manages per-user portal links. Like UserService it serves
// the in-memory fallback directory under local mode or on database
// failure, and records mutations in the activity log on a best-effort
// basis.
type LinkService struct {
	links    core.LinkRepository
	activity core.ActivityRepository
	fallback *localauth.Directory
	state    *AuthState
	logger   *slog.Logger
}

// NewLinkService constructs a new LinkService.
func NewLinkService(opts LinkServiceOptions) (*LinkService, error) {
	if opts.Fallback == nil {
		return nil, errors.New("Fallback is required")
	}
	if opts.State == nil {
		return nil, errors.New("State is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "link_service")
	}

	return &LinkService{
		links:    opts.Links,
		activity: opts.Activity,
		fallback: opts.Fallback,
		state:    opts.State,
		logger:   logger,
	}, nil
}

// ListForUser returns the links belonging to the given user.
func (s *LinkService) ListForUser(ctx context.Context, userID string) ([]model.UserLink, error) {
	if s.links == nil || s.state.Mode(ctx) == domainauth.ModeLocal {
		return s.fallbackLinks(userID), nil
	}

	links, err := s.links.ListByUser(ctx, userID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("link list query failed, serving fallback directory",
				"user_id", userID,
				"error", err)
		}
		return s.fallbackLinks(userID), nil
	}
	return derefLinks(links), nil
}

// Add creates a link for the given user and records the mutation.
func (s *LinkService) Add(ctx context.Context, actorID, userID string, req *model.CreateLinkRequest) (*model.UserLink, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.links == nil || s.state.Mode(ctx) == domainauth.ModeLocal {
		link, ok := s.fallback.AddLink(userID, req)
		if !ok {
			return nil, apperrors.NotFound("user not found")
		}
		s.logActivity(ctx, actorID, model.ActivityAddLink, link)
		return &link, nil
	}

	link, err := s.links.Create(ctx, userID, req)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("link insert failed, trying fallback directory",
				"user_id", userID,
				"error", err)
		}
		fb, ok := s.fallback.AddLink(userID, req)
		if !ok {
			return nil, err
		}
		s.logActivity(ctx, actorID, model.ActivityAddLink, fb)
		return &fb, nil
	}

	s.logActivity(ctx, actorID, model.ActivityAddLink, *link)
	return link, nil
}

// Remove deletes a link by id.
func (s *LinkService) Remove(ctx context.Context, actorID, linkID string) error {
	if s.links == nil || s.state.Mode(ctx) == domainauth.ModeLocal {
		if !s.fallback.RemoveLink(linkID) {
			return apperrors.NotFound("link not found")
		}
		s.logActivity(ctx, actorID, model.ActivityRemoveLink, model.UserLink{ID: linkID})
		return nil
	}

	deleted, err := s.links.Delete(ctx, linkID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("link delete failed, trying fallback directory",
				"link_id", linkID,
				"error", err)
		}
		if !s.fallback.RemoveLink(linkID) {
			return err
		}
		s.logActivity(ctx, actorID, model.ActivityRemoveLink, model.UserLink{ID: linkID})
		return nil
	}
	if !deleted {
		return apperrors.NotFound("link not found")
	}

	s.logActivity(ctx, actorID, model.ActivityRemoveLink, model.UserLink{ID: linkID})
	return nil
}

// logActivity appends an audit row. Failures are logged and swallowed;
// audit lag never fails the user-facing operation.
func (s *LinkService) logActivity(ctx context.Context, actorID string, action model.ActivityAction, link model.UserLink) {
	if s.activity == nil {
		return
	}
	details, err := json.Marshal(map[string]string{
		"link_id":   link.ID,
		"link_name": link.Name,
		"link_url":  link.URL,
	})
	if err != nil {
		return
	}
	entry := &model.ActivityLog{
		ActorID: actorID,
		Action:  action,
		Details: details,
	}
	if err := s.activity.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "action", action, "error", err)
	}
}

func (s *LinkService) fallbackLinks(userID string) []model.UserLink {
	links := s.fallback.Links(userID)
	if links == nil {
		return []model.UserLink{}
	}
	return links
}
