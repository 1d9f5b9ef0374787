// Package devseed populates development deployments with demo data: the
// fallback directory's users mirrored into Postgres, plus a starter set
// of portal links for each of them.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	"github.com/hrbrew/hrbrew-api/internal/data"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
)

// defaultLinks is the starter link set every seeded user receives.
func defaultLinks() []model.CreateLinkRequest {
	return []model.CreateLinkRequest{
		{Name: "Payslips", URL: "https://payslips.hrbrew.local"},
		{Name: "Leave Requests", URL: "https://leave.hrbrew.local"},
		{Name: "Staff Handbook", URL: "https://handbook.hrbrew.local"},
	}
}

// SeedDB mirrors the fallback directory's users into the database and
// gives each of them the starter link set. Existing rows are updated in
// place; links are only added for users that have none yet.
func SeedDB(ctx context.Context, db *sql.DB, source *localauth.Source, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	users := &data.UserRepo{DB: db}
	links := &data.LinkRepo{DB: db}

	for _, p := range source.Profiles() {
		if _, err := users.Upsert(ctx, &model.UpsertUserRequest{
			ID:         p.ID,
			Username:   p.Username,
			Email:      p.Email,
			FullName:   p.FullName,
			Department: p.Department,
			IsAdmin:    p.IsAdmin,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", p.Username, err)
		}

		existing, err := links.ListByUser(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list links for %s: %w", p.Username, err)
		}
		if len(existing) > 0 {
			continue
		}
		for i := range defaultLinks() {
			req := defaultLinks()[i]
			if _, err := links.Create(ctx, p.ID, &req); err != nil {
				return fmt.Errorf("seed link %s for %s: %w", req.Name, p.Username, err)
			}
		}
		logger.InfoContext(ctx, "seeded demo user", "username", p.Username)
	}

	return nil
}

// SeedDirectory gives every directory user the starter link set. Used in
// dev mode so the portal shows content even without Postgres.
func SeedDirectory(dir *localauth.Directory) {
	seeded := make(map[string][]model.UserLink)
	for _, u := range dir.Users() {
		if len(u.Links) > 0 {
			continue
		}
		out := make([]model.UserLink, 0, len(defaultLinks()))
		for i, req := range defaultLinks() {
			out = append(out, model.UserLink{
				ID:     fmt.Sprintf("seed-%s-%d", u.ID, i),
				UserID: u.ID,
				Name:   req.Name,
				URL:    req.URL,
			})
		}
		seeded[u.ID] = out
	}
	dir.Seed(seeded)
}
