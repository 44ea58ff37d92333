package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sami-Ke/otlex-docs/internal/auth"
	"github.com/Sami-Ke/otlex-docs/internal/config"
	"github.com/Sami-Ke/otlex-docs/internal/throttle"
	pkgauth "github.com/Sami-Ke/otlex-docs/pkg/auth"
	pkghttp "github.com/Sami-Ke/otlex-docs/pkg/http"
)

// AuthHandler handles admin login, logout and session introspection.
type AuthHandler struct {
	cfg      *config.AdminConfig
	limiter  *throttle.Limiter
	sessions *auth.SessionManager
	timing   *auth.TimingDelay
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	cfg *config.AdminConfig,
	limiter *throttle.Limiter,
	sessions *auth.SessionManager,
	timing *auth.TimingDelay,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		limiter:  limiter,
		sessions: sessions,
		timing:   timing,
		logger:   logger,
	}
}

// LoginRequest represents the JSON request body for login
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Login verifies the admin credential and issues a session cookie.
//
// Sequence: resolve identity key, consult the throttle, read the password,
// verify against the configured hash, then either record the failure or
// issue a session and clear the identity's throttle history.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	key := pkghttp.IdentityKey(r)

	if res := h.limiter.Check(r.Context(), key); res.Blocked {
		pkghttp.WriteTooManyRequests(w, "Too many failed login attempts. Please try again later.", res.RetryAfterSeconds)
		return
	}

	password, ok := readPassword(r)
	if !ok {
		pkghttp.WriteBadRequest(w, "Missing password")
		return
	}

	if h.cfg.PasswordHash == "" {
		h.logger.Error("admin login attempted without ADMIN_PASSWORD_HASH configured")
		pkghttp.WriteInternalError(w, "Server misconfigured: missing ADMIN_PASSWORD_HASH")
		return
	}

	if !pkgauth.VerifyPassword(password, h.cfg.PasswordHash) {
		res := h.limiter.RecordFailure(r.Context(), key)
		h.timing.Wait()

		if res.Blocked {
			w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds))
		}
		pkghttp.WriteUnauthorized(w, "Invalid password")
		return
	}

	if h.cfg.SessionSecret == "" {
		h.logger.Error("admin login attempted without ADMIN_JWT_SECRET configured")
		pkghttp.WriteInternalError(w, "Server misconfigured: missing ADMIN_JWT_SECRET")
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("failed to issue session", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	h.limiter.Clear(r.Context(), key)

	auth.SetSessionCookie(w, token, int(h.cfg.SessionTTL.Seconds()), auth.CookieConfig{Secure: h.cfg.CookieSecure})
	w.Header().Set("Cache-Control", "no-store")
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry — there is no revocation list — so clearing the cookie is the
// whole operation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, auth.CookieConfig{Secure: h.cfg.CookieSecure})
	w.Header().Set("Cache-Control", "no-store")
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the verified claims for the presented cookie. Reached
// only through the authorization gate.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"role":       claims.Role,
		"sub":        claims.Subject,
		"expires_at": claims.ExpiresAt.Time,
	})
}

// readPassword reads the submitted password from a JSON body, falling back
// to form data so a plain form submit also works.
func readPassword(r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", false
		}
		if err := ValidateRequest(req); err != nil {
			return "", false
		}
		return req.Password, true
	}

	if err := r.ParseForm(); err != nil {
		return "", false
	}
	password := r.PostFormValue("password")
	return password, password != ""
}
