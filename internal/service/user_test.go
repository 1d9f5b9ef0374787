package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hrbrew/hrbrew-api/config"
	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
	"github.com/hrbrew/hrbrew-api/internal/mocks"
)

func newTestDirectory() *localauth.Directory {
	return localauth.NewDirectory(localauth.NewSource(nil, config.IdentifierEmail))
}

func newUserService(t *testing.T, users *mocks.MockUserRepository, links *mocks.MockLinkRepository, state *AuthState) *UserService {
	t.Helper()
	var u = UserServiceOptions{
		Fallback: newTestDirectory(),
		State:    state,
	}
	if users != nil {
		u.Users = users
	}
	if links != nil {
		u.Links = links
	}
	svc, err := NewUserService(u)
	require.NoError(t, err)
	return svc
}

func TestNewUserService_RequiredDependencies(t *testing.T) {
	_, err := NewUserService(UserServiceOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fallback is required")
}

func TestListWithLinks_MergesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	links := mocks.NewMockLinkRepository(ctrl)
	state, _ := newTestState(t)

	dbUser := &model.User{ID: "u1", Username: "bob", Email: "bob@x.com"}
	users.EXPECT().List(gomock.Any(), 100, 0).Return([]*model.User{dbUser}, nil)
	links.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*model.UserLink{
		{ID: "l1", UserID: "u1", Name: "Payroll", URL: "https://payroll.example.com"},
	}, nil)

	svc := newUserService(t, users, links, state)
	out, err := svc.ListWithLinks(context.Background(), 100, 0)
	require.NoError(t, err)

	// bob from the database plus the three built-in demo accounts.
	require.Len(t, out, 4)
	byName := make(map[string]model.UserWithLinks, len(out))
	for _, u := range out {
		byName[u.Username] = u
	}
	require.Contains(t, byName, "bob")
	assert.Len(t, byName["bob"].Links, 1)
	assert.Contains(t, byName, "admin")
	assert.True(t, byName["admin"].IsAdmin)
}

// A database user that shadows a demo username appears exactly once.
func TestListWithLinks_DedupesByUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	links := mocks.NewMockLinkRepository(ctrl)
	state, _ := newTestState(t)

	dbAdmin := &model.User{ID: "real-admin", Username: "admin", IsAdmin: true}
	users.EXPECT().List(gomock.Any(), 100, 0).Return([]*model.User{dbAdmin}, nil)
	links.EXPECT().ListByUser(gomock.Any(), "real-admin").Return(nil, nil)

	svc := newUserService(t, users, links, state)
	out, err := svc.ListWithLinks(context.Background(), 100, 0)
	require.NoError(t, err)

	count := 0
	for _, u := range out {
		if u.Username == "admin" {
			count++
			assert.Equal(t, "real-admin", u.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestListWithLinks_DatabaseFailureServesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	state, _ := newTestState(t)

	users.EXPECT().List(gomock.Any(), 100, 0).Return(nil, errors.New("connection refused"))

	svc := newUserService(t, users, mocks.NewMockLinkRepository(ctrl), state)
	out, err := svc.ListWithLinks(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

// Under local mode the database is not consulted at all.
func TestListWithLinks_LocalModeSkipsDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state, _ := newTestState(t)
	require.NoError(t, state.Commit(context.Background(),
		domainauth.UserProfile{ID: "1", Username: "admin"}, domainauth.ModeLocal))

	// No EXPECT calls: any repository use would fail the test.
	svc := newUserService(t, mocks.NewMockUserRepository(ctrl), mocks.NewMockLinkRepository(ctrl), state)
	out, err := svc.ListWithLinks(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestGetByID_FallbackDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	state, _ := newTestState(t)
	users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	svc := newUserService(t, users, nil, state)

	id := localauth.StableID("1")
	u, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	_, err = svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpsert_Validates(t *testing.T) {
	state, _ := newTestState(t)
	svc := newUserService(t, nil, nil, state)

	_, err := svc.Upsert(context.Background(), &model.UpsertUserRequest{Username: "bob"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "id", apperrors.GetField(err))
}

func TestUpsert_Persists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	state, _ := newTestState(t)
	req := &model.UpsertUserRequest{ID: "u1", Username: "bob"}
	users.EXPECT().Upsert(gomock.Any(), req).Return(&model.User{ID: "u1", Username: "bob"}, nil)

	svc := newUserService(t, users, nil, state)
	u, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}
