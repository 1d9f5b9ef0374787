package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
	"github.com/hrbrew/hrbrew-api/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB, username string) *model.User {
	t.Helper()
	repo := NewUserRepo(db)
	u, err := repo.Upsert(context.Background(), &model.UpsertUserRequest{
		ID:       fmt.Sprintf("uid-%s-%d", username, time.Now().UnixNano()),
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepo_Upsert_Get_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		req := &model.UpsertUserRequest{
			ID:         "u1",
			Username:   "bob",
			Email:      "bob@example.com",
			FullName:   "Bob Katz",
			Department: "Finance",
		}
		u, err := repo.Upsert(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
		assert.False(t, u.IsAdmin)
		assert.NotZero(t, u.CreatedAt)

		// upsert again with changed fields updates in place
		req.Department = "Payroll"
		req.IsAdmin = true
		u2, err := repo.Upsert(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, u.ID, u2.ID)
		assert.Equal(t, "Payroll", u2.Department)
		assert.True(t, u2.IsAdmin)

		got, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)

		byEmail, err := repo.GetByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", byEmail.ID)

		users, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_Upsert_DuplicateUsername(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		createTestUser(t, db, "dana")

		_, err := repo.Upsert(ctx, &model.UpsertUserRequest{ID: "other-id", Username: "dana"})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestUserRepo_Upsert_Invalid(t *testing.T) {
	repo := NewUserRepo(nil)
	_, err := repo.Upsert(context.Background(), &model.UpsertUserRequest{Username: "bob"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProfileLookup_MissingRowIsNotError(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		lookup := &ProfileLookup{Users: NewUserRepo(db)}

		p, err := lookup.FetchProfileByID(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, p)

		u := createTestUser(t, db, "rivka")
		p, err = lookup.FetchProfileByID(context.Background(), u.ID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "rivka", p.Username)
	})
}
