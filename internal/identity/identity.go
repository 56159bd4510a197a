// Package identity provides anonymous per-device identity primitives.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"
)

const (
	AnonCookieName   = "ikigai_anon_id"
	anonCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const (
	userIDKey contextKey = iota
	returningKey
	remoteIPKey
)

var anonIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// ClientKey identifies the caller for throttling. Callers that presented a
// valid identity cookie are keyed by it; first-time and cookieless clients
// (the terminal wizard, curl) are keyed by remote IP so they cannot mint a
// fresh identity per request.
func ClientKey(ctx context.Context) string {
	if returning, _ := ctx.Value(returningKey).(bool); returning {
		return UserIDFromContext(ctx)
	}
	if ip, ok := ctx.Value(remoteIPKey).(string); ok && ip != "" {
		return "ip:" + ip
	}
	return UserIDFromContext(ctx)
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func setCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// getOrCreateAnonID refreshes an existing cookie or issues a new one.
// The boolean reports whether the caller already had a valid identity.
func getOrCreateAnonID(w http.ResponseWriter, r *http.Request, isDev bool) (string, bool, error) {
	if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
		setCookie(w, c.Value, isDev)
		return c.Value, true, nil
	}

	id, err := generateAnonID()
	if err != nil {
		return "", false, err
	}
	setCookie(w, id, isDev)
	return id, false, nil
}

// Middleware injects anonymous per-device identity into the request context.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, returning, err := getOrCreateAnonID(w, r, isDev)
			if err != nil {
				http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, returningKey, returning)
			ctx = context.WithValue(ctx, remoteIPKey, IPFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
