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

// UserRepo provides CRUD operations for profile rows.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ErrUserNotFound is returned when a profile row is not found.
var ErrUserNotFound = errors.New("user not found")

func userColumnList() []string {
	return []string{"id", "username", "email", "full_name", "department", "is_admin", "created_at", "updated_at"}
}

var userColumns = strings.Join(userColumnList(), ", ")

// Upsert inserts or updates a profile row keyed by id.
func (r *UserRepo) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO profiles (id, username, email, full_name, department, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			department = EXCLUDED.department,
			is_admin = EXCLUDED.is_admin,
			updated_at = now()
		RETURNING %s`, userColumns)

	var u model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			req.ID, req.Username, req.Email, req.FullName, req.Department, req.IsAdmin)
		if err != nil {
			return err
		}
		defer rows.Close()
		u, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("upsert user: %w", err))
	}
	return &u, nil
}

// GetByID fetches a profile row by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx,
		fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", userColumns), id)
}

// GetByEmail fetches a profile row by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx,
		fmt.Sprintf("SELECT %s FROM profiles WHERE email = $1", userColumns), email)
}

func (r *UserRepo) getByQuery(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		u, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List returns profile rows ordered by username.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	opts := database.NewListQueryOptions("profiles",
		database.WithColumns(userColumnList()...),
		database.WithOrderBy("username", "ASC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	)
	query, args := database.BuildListQuery(opts)

	var users []*model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		users, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
