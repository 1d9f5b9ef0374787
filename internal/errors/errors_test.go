package errors

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "something failed")

	assert.Equal(t, "something failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInternal(err))
}

func TestCodeHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(ValidationField("name", "required")))
	assert.True(t, IsUnauthorized(Unauthorized("no session")))
	assert.True(t, IsForbidden(Forbidden("admins only")))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.Equal(t, "name", GetField(ValidationField("name", "required")))
	assert.Equal(t, ErrCodeForbidden, GetCode(Forbidden("nope")))
	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (username)=(advaz) already exists.",
	}
	err := MapDBError(pgErr)
	assert.True(t, IsConflict(err))
	assert.Equal(t, "username", GetField(err))
}

func TestMapDBError_Passthrough(t *testing.T) {
	plain := errors.New("network down")
	assert.Equal(t, plain, MapDBError(plain))
	assert.NoError(t, MapDBError(nil))
}
