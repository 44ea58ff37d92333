package routes

import (
	"github.com/Sami-Ke/otlex-docs/internal/auth"
	"github.com/Sami-Ke/otlex-docs/internal/handlers"
	"github.com/Sami-Ke/otlex-docs/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the admin back-office routes. The login page and
// login API sit outside the gated groups, which is what keeps them
// reachable without a session.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	pageHandler *handlers.PageHandler,
	sessions *auth.SessionManager,
) {
	loginLimit := middleware.DefaultLoginRateLimit()

	// Public routes - no session required
	router.Get("/admin/login", pageHandler.LoginPage)
	router.With(middleware.RateLimitByIP(loginLimit)).Post("/api/admin/auth/login", authHandler.Login)

	// Admin UI - unauthenticated requests are redirected to the login page
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdminUI(sessions))
		r.Get("/admin", pageHandler.AdminHome)
		r.Get("/admin/*", pageHandler.AdminHome)
	})

	// Admin API - unauthenticated requests get 401
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdminAPI(sessions))
		r.Post("/api/admin/auth/logout", authHandler.Logout)
		r.Get("/api/admin/session", authHandler.Session)
	})
}
