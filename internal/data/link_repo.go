package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hrbrew/hrbrew-api/internal/data/database"
	"github.com/hrbrew/hrbrew-api/internal/data/pgxutil"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

// LinkRepo provides CRUD operations for user links.
type LinkRepo struct {
	DB *sql.DB
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo(db *sql.DB) *LinkRepo {
	return &LinkRepo{DB: db}
}

// ErrLinkNotFound is returned when a link row is not found.
var ErrLinkNotFound = errors.New("link not found")

func linkColumnList() []string {
	return []string{"id", "user_id", "name", "url", "created_at"}
}

var linkColumns = strings.Join(linkColumnList(), ", ")

// Create inserts a link row for the given user.
func (r *LinkRepo) Create(ctx context.Context, userID string, req *model.CreateLinkRequest) (*model.UserLink, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO user_links (user_id, name, url)
		VALUES ($1, $2, $3)
		RETURNING %s`, linkColumns)

	var link model.UserLink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, userID, req.Name, req.URL)
		if err != nil {
			return err
		}
		defer rows.Close()
		link, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserLink])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create link: %w", err))
	}
	return &link, nil
}

// GetByID fetches a link row by id.
func (r *LinkRepo) GetByID(ctx context.Context, id string) (*model.UserLink, error) {
	query := fmt.Sprintf("SELECT %s FROM user_links WHERE id = $1", linkColumns)

	var link model.UserLink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		link, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserLink])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &link, nil
}

// ListByUser returns the links belonging to a user, oldest first.
func (r *LinkRepo) ListByUser(ctx context.Context, userID string) ([]*model.UserLink, error) {
	opts := database.NewListQueryOptions("user_links",
		database.WithColumns(linkColumnList()...),
		database.WithCondition(database.WhereCond("user_id", database.Equal, userID)),
		database.WithOrderBy("created_at", "ASC"),
	)
	query, args := database.BuildListQuery(opts)

	var links []*model.UserLink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		links, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.UserLink])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Delete removes a link row. It reports whether a row was deleted.
func (r *LinkRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM user_links WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete link rows affected: %w", err)
	}
	return n > 0, nil
}
