package http

import (
	"net/http"
	"strings"
)

const (
	// UnknownClient is the sentinel used when no identity header is present.
	UnknownClient = "unknown"

	// maxUserAgentLen bounds the user-agent portion of the identity key so a
	// hostile client cannot inflate throttle entries with oversized headers.
	maxUserAgentLen = 120
)

// ExtractClientIP returns the best-effort client IP for an incoming request.
// Precedence: first X-Forwarded-For entry, then X-Real-IP, then the
// Cloudflare CF-Connecting-IP header. Behind the docs site's edge proxy the
// socket peer is always the proxy itself, so there is no RemoteAddr
// fallback; the UnknownClient sentinel is used instead.
func ExtractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if cfip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); cfip != "" {
		return cfip
	}

	return UnknownClient
}

// IdentityKey derives the throttle key for a login attempt: client IP plus a
// truncated user agent, joined by "|". Deterministic for identical headers;
// computed fresh per request and never persisted beyond its throttle entry.
func IdentityKey(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		ua = UnknownClient
	}
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	return ExtractClientIP(r) + "|" + ua
}
