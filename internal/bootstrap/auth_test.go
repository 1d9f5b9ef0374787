package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrbrew/hrbrew-api/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthStack_NoIssuerFallsBackToLocal(t *testing.T) {
	stack, err := BuildAuthStack(context.Background(), config.AuthConfig{
		Identifier: config.IdentifierEmail,
	}, nil, discardLogger())
	require.NoError(t, err)

	// Sign-in must fail so logins cascade to the local table.
	_, err = stack.Provider.SignInWithPassword(context.Background(), "a", "b")
	assert.Error(t, err)

	sess, err := stack.Provider.CurrentSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, sess)

	// The demo table backs the source when no records are configured.
	profile, ok := stack.Source.Authenticate("admin@hrbrew.local", "admin123")
	require.True(t, ok)
	assert.True(t, profile.IsAdmin)
	assert.Len(t, stack.Directory.Users(), 3)
}

func TestBuildAuthStack_ConfiguredLocalUsers(t *testing.T) {
	stack, err := BuildAuthStack(context.Background(), config.AuthConfig{
		Identifier: config.IdentifierUsername,
		Local: config.LocalUserConfig{
			Raw: []string{"10,ops,ops@city.example,opspass,true,Ops Lead,IT"},
		},
	}, nil, discardLogger())
	require.NoError(t, err)

	profile, ok := stack.Source.Authenticate("ops", "opspass")
	require.True(t, ok)
	assert.Equal(t, "ops@city.example", profile.Email)
	assert.True(t, profile.IsAdmin)

	_, ok = stack.Source.Authenticate("admin", "admin123")
	assert.False(t, ok, "demo table must be replaced by configured records")
}

func TestBuildAuthStack_BadLocalUsers(t *testing.T) {
	_, err := BuildAuthStack(context.Background(), config.AuthConfig{
		Local: config.LocalUserConfig{Raw: []string{"only,three,fields"}},
	}, nil, discardLogger())
	assert.Error(t, err)
}

func TestBuildAuthStack_PasswordAdminUnconfigured(t *testing.T) {
	stack, err := BuildAuthStack(context.Background(), config.AuthConfig{}, nil, discardLogger())
	require.NoError(t, err)

	err = stack.Admin.SetPasswordByEmail(context.Background(), "x@x.com", "secret")
	assert.ErrorContains(t, err, "not configured")
}
