package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
	"github.com/hrbrew/hrbrew-api/internal/mocks"
)

type fakePasswordAdmin struct {
	calls []string
	err   error
}

func (f *fakePasswordAdmin) SetPasswordByEmail(ctx context.Context, email, password string) error {
	f.calls = append(f.calls, email)
	return f.err
}

var adminActor = domainauth.UserProfile{ID: "admin-1", Username: "admin", IsAdmin: true}

func TestChangePassword_RequiresAdmin(t *testing.T) {
	admin := &fakePasswordAdmin{}
	svc, err := NewPasswordService(PasswordServiceOptions{Admin: admin})
	require.NoError(t, err)

	actor := domainauth.UserProfile{ID: "u1", Username: "bob"}
	err = svc.Change(context.Background(), actor, "bob@x.com", "newsecret")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, admin.calls)
}

func TestChangePassword_Validates(t *testing.T) {
	admin := &fakePasswordAdmin{}
	svc, err := NewPasswordService(PasswordServiceOptions{Admin: admin})
	require.NoError(t, err)

	err = svc.Change(context.Background(), adminActor, "", "newsecret")
	require.Error(t, err)
	assert.Equal(t, "email", apperrors.GetField(err))

	err = svc.Change(context.Background(), adminActor, "bob@x.com", "short")
	require.Error(t, err)
	assert.Equal(t, "password", apperrors.GetField(err))
	assert.Empty(t, admin.calls)
}

func TestChangePassword_RelaysAndRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := &fakePasswordAdmin{}
	users := mocks.NewMockUserRepository(ctrl)
	activity := mocks.NewMockActivityRepository(ctrl)

	users.EXPECT().GetByEmail(gomock.Any(), "bob@x.com").
		Return(&model.User{ID: "u1", Username: "bob"}, nil)
	activity.EXPECT().LogPasswordChange(gomock.Any(), "admin-1", "u1").Return(nil)
	activity.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *model.ActivityLog) error {
			assert.Equal(t, model.ActivityChangePassword, entry.Action)
			assert.NotContains(t, string(entry.Details), "newsecret")
			return nil
		})

	svc, err := NewPasswordService(PasswordServiceOptions{
		Admin:    admin,
		Users:    users,
		Activity: activity,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Change(context.Background(), adminActor, "bob@x.com", "newsecret"))
	assert.Equal(t, []string{"bob@x.com"}, admin.calls)
}

// When the target has no profile row the history records the email
// instead of an id.
func TestChangePassword_UnknownTargetRecordsEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := &fakePasswordAdmin{}
	users := mocks.NewMockUserRepository(ctrl)
	activity := mocks.NewMockActivityRepository(ctrl)

	users.EXPECT().GetByEmail(gomock.Any(), "ghost@x.com").Return(nil, errors.New("no rows"))
	activity.EXPECT().LogPasswordChange(gomock.Any(), "admin-1", "ghost@x.com").Return(nil)
	activity.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)

	svc, err := NewPasswordService(PasswordServiceOptions{
		Admin:    admin,
		Users:    users,
		Activity: activity,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Change(context.Background(), adminActor, "ghost@x.com", "newsecret"))
}

// A backend rejection is surfaced untouched and nothing is recorded.
func TestChangePassword_BackendRejection(t *testing.T) {
	admin := &fakePasswordAdmin{err: apperrors.Forbidden("not allowed")}
	svc, err := NewPasswordService(PasswordServiceOptions{Admin: admin})
	require.NoError(t, err)

	err = svc.Change(context.Background(), adminActor, "bob@x.com", "newsecret")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}
