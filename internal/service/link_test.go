package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
	"github.com/hrbrew/hrbrew-api/internal/mocks"
)

func newLinkService(t *testing.T, links *mocks.MockLinkRepository, activity *mocks.MockActivityRepository, state *AuthState) (*LinkService, *localauth.Directory) {
	t.Helper()
	dir := newTestDirectory()
	opts := LinkServiceOptions{
		Fallback: dir,
		State:    state,
	}
	if links != nil {
		opts.Links = links
	}
	if activity != nil {
		opts.Activity = activity
	}
	svc, err := NewLinkService(opts)
	require.NoError(t, err)
	return svc, dir
}

func TestNewLinkService_RequiredDependencies(t *testing.T) {
	_, err := NewLinkService(LinkServiceOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fallback is required")
}

func TestListForUser_Database(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	state, _ := newTestState(t)
	links.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*model.UserLink{
		{ID: "l1", UserID: "u1", Name: "Payroll", URL: "https://payroll.example.com"},
	}, nil)

	svc, _ := newLinkService(t, links, nil, state)
	out, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Payroll", out[0].Name)
}

func TestListForUser_DatabaseFailureServesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	state, _ := newTestState(t)
	links.EXPECT().ListByUser(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	svc, dir := newLinkService(t, links, nil, state)
	id := localauth.StableID("2")
	dir.Seed(map[string][]model.UserLink{
		id: {{ID: "l1", UserID: id, Name: "Benefits", URL: "https://benefits.example.com"}},
	})

	out, err := svc.ListForUser(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Benefits", out[0].Name)
}

// An unknown user under fallback yields an empty list, not nil.
func TestListForUser_UnknownUserEmpty(t *testing.T) {
	state, _ := newTestState(t)
	svc, _ := newLinkService(t, nil, nil, state)

	out, err := svc.ListForUser(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAddLink_Validates(t *testing.T) {
	state, _ := newTestState(t)
	svc, _ := newLinkService(t, nil, nil, state)

	_, err := svc.Add(context.Background(), "actor", "u1", &model.CreateLinkRequest{URL: "https://x.example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(context.Background(), "actor", "u1", &model.CreateLinkRequest{Name: "x", URL: "not a url"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddLink_DatabaseWithActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	activity := mocks.NewMockActivityRepository(ctrl)
	state, _ := newTestState(t)

	req := &model.CreateLinkRequest{Name: "Payroll", URL: "https://payroll.example.com"}
	created := &model.UserLink{ID: "l1", UserID: "u1", Name: "Payroll", URL: "https://payroll.example.com"}
	links.EXPECT().Create(gomock.Any(), "u1", req).Return(created, nil)
	activity.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *model.ActivityLog) error {
			assert.Equal(t, "actor-1", entry.ActorID)
			assert.Equal(t, model.ActivityAddLink, entry.Action)
			assert.Contains(t, string(entry.Details), "l1")
			return nil
		})

	svc, _ := newLinkService(t, links, activity, state)
	link, err := svc.Add(context.Background(), "actor-1", "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "l1", link.ID)
}

// An audit write failure never fails the user-facing operation.
func TestAddLink_ActivityFailureIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	activity := mocks.NewMockActivityRepository(ctrl)
	state, _ := newTestState(t)

	req := &model.CreateLinkRequest{Name: "Payroll", URL: "https://payroll.example.com"}
	links.EXPECT().Create(gomock.Any(), "u1", req).
		Return(&model.UserLink{ID: "l1", UserID: "u1"}, nil)
	activity.EXPECT().Log(gomock.Any(), gomock.Any()).Return(errors.New("audit table gone"))

	svc, _ := newLinkService(t, links, activity, state)
	_, err := svc.Add(context.Background(), "actor-1", "u1", req)
	require.NoError(t, err)
}

func TestAddLink_LocalModeUsesDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state, _ := newTestState(t)
	require.NoError(t, state.Commit(context.Background(),
		domainauth.UserProfile{ID: "1"}, domainauth.ModeLocal))

	svc, dir := newLinkService(t, mocks.NewMockLinkRepository(ctrl), nil, state)

	id := localauth.StableID("2")
	link, err := svc.Add(context.Background(), id, id,
		&model.CreateLinkRequest{Name: "Payroll", URL: "https://payroll.example.com"})
	require.NoError(t, err)
	assert.Len(t, dir.Links(id), 1)

	require.NoError(t, svc.Remove(context.Background(), id, link.ID))
	assert.Empty(t, dir.Links(id))
}

func TestAddLink_UnknownUser(t *testing.T) {
	state, _ := newTestState(t)
	svc, _ := newLinkService(t, nil, nil, state)

	_, err := svc.Add(context.Background(), "actor", "missing",
		&model.CreateLinkRequest{Name: "x", URL: "https://x.example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveLink_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	state, _ := newTestState(t)
	links.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	svc, _ := newLinkService(t, links, nil, state)
	err := svc.Remove(context.Background(), "actor", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveLink_Database(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := mocks.NewMockLinkRepository(ctrl)
	activity := mocks.NewMockActivityRepository(ctrl)
	state, _ := newTestState(t)
	links.EXPECT().Delete(gomock.Any(), "l1").Return(true, nil)
	activity.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)

	svc, _ := newLinkService(t, links, activity, state)
	require.NoError(t, svc.Remove(context.Background(), "actor", "l1"))
}
