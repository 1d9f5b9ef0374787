package httpx

import (
	"log/slog"
	"net/http"

	"github.com/hrbrew/hrbrew-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthHandlerService
	Users        *service.UserService
	Links        *service.LinkService
	Passwords    *service.PasswordService
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	userHandlers := &UserHandlers{Svc: services.Users}
	linkHandlers := &LinkHandlers{Svc: services.Links}
	passwordHandlers := &PasswordHandlers{Svc: services.Passwords}

	registerAuthRoutes(mux, authHandlers)
	registerUserRoutes(mux, userHandlers, linkHandlers, services.Auth)
	registerPasswordRoutes(mux, passwordHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger)(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))
}

func registerUserRoutes(mux *http.ServeMux, users *UserHandlers, links *LinkHandlers, auth AuthHandlerService) {
	admin := RequireAdmin(auth)
	authed := RequireAuth(auth)

	mux.Handle("GET /api/users", admin(http.HandlerFunc(users.List)))
	mux.Handle("POST /api/users", admin(http.HandlerFunc(users.Upsert)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(users.Get)))

	mux.Handle("GET /api/me/links", authed(http.HandlerFunc(links.ListMine)))
	mux.Handle("GET /api/users/{id}/links", admin(http.HandlerFunc(links.ListForUser)))
	mux.Handle("POST /api/users/{id}/links", admin(http.HandlerFunc(links.Create)))
	mux.Handle("DELETE /api/links/{id}", admin(http.HandlerFunc(links.Delete)))
}

func registerPasswordRoutes(mux *http.ServeMux, h *PasswordHandlers, auth AuthHandlerService) {
	admin := RequireAdmin(auth)
	mux.Handle("POST /api/users/password", admin(http.HandlerFunc(h.Change)))
}
