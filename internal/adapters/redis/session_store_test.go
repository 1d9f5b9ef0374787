package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID: id,
		Profile: domainauth.UserProfile{
			ID:       "user-123",
			Username: "bob",
			Email:    "bob@example.com",
		},
		Mode:      domainauth.ModeRemote,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.Profile, retrieved.Profile)
	assert.Equal(t, domainauth.ModeRemote, retrieved.Mode)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_SaveExpired(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	sess := testSession("expired-session")
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Save(context.Background(), sess)
	assert.Error(t, err)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("to-delete")))
	require.NoError(t, store.Delete(ctx, "to-delete"))

	_, err := store.Get(ctx, "to-delete")
	assert.Equal(t, ErrNotFound, err)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, "to-delete"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestStateStore_RoundTripCustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewStateStore(client, "authstate-test:")
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "auth_mode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "auth_mode", "local"))

	val, ok, err := store.Get(ctx, "auth_mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "local", val)

	require.NoError(t, store.Remove(ctx, "auth_mode"))
	_, ok, err = store.Get(ctx, "auth_mode")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is fine
	assert.NoError(t, store.Remove(ctx, "auth_mode"))
}
