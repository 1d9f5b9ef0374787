package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/service"
)

// staticAuth satisfies AuthHandlerService with a single fixed session.
type staticAuth struct {
	session *domainauth.Session
}

func (a *staticAuth) Login(context.Context, string, string) (*service.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (a *staticAuth) Logout(context.Context, string) error { return nil }

func (a *staticAuth) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if a.session != nil && a.session.ID == id {
		return a.session, nil
	}
	return nil, errors.New("session not found")
}

func (a *staticAuth) Status(context.Context) (*domainauth.UserProfile, domainauth.Mode) {
	return nil, domainauth.ModeRemote
}

func sessionFor(isAdmin bool) *domainauth.Session {
	return &domainauth.Session{
		ID: "sess-1",
		Profile: domainauth.UserProfile{
			ID:       "u1",
			Username: "tester",
			IsAdmin:  isAdmin,
		},
		Mode: domainauth.ModeRemote,
	}
}

func TestRequireAuth_InjectsSession(t *testing.T) {
	auth := &staticAuth{session: sessionFor(false)}

	var seen *domainauth.Session
	handler := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "tester", seen.Profile.Username)
}

func TestRequireAuth_RejectsMissingOrBadCookie(t *testing.T) {
	auth := &staticAuth{session: sessionFor(false)}
	handler := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "bogus"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_ForbidsNonAdmin(t *testing.T) {
	auth := &staticAuth{session: sessionFor(false)}
	handler := RequireAdmin(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	auth := &staticAuth{session: sessionFor(true)}
	handler := RequireAdmin(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	handler := Recover(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
