package handlers

import (
	"html/template"
	"net/http"

	"github.com/Sami-Ke/otlex-docs/internal/auth"
)

var loginPageTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin Login</title></head>
<body>
  <h1>Admin Login</h1>
  <form method="post" action="/api/admin/auth/login">
    <label>Password <input type="password" name="password" autocomplete="current-password" required></label>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
`))

var adminHomeTmpl = template.Must(template.New("home").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Docs Admin</title></head>
<body>
  <h1>Docs Admin</h1>
  <p>Signed in as {{.Subject}}.</p>
  <form method="post" action="/api/admin/auth/logout">
    <button type="submit">Sign out</button>
  </form>
</body>
</html>
`))

// PageHandler serves the minimal admin UI pages. The real editor front-end
// lives elsewhere; these pages exist so the UI path family and its redirect
// behavior are exercised end to end.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// LoginPage renders the login form. Always reachable unauthenticated.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = loginPageTmpl.Execute(w, nil)
}

// AdminHome renders the gated landing page.
func (h *PageHandler) AdminHome(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		http.Redirect(w, r, auth.LoginPagePath, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = adminHomeTmpl.Execute(w, claims)
}
