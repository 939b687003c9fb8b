// internal/handlers/utils.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eatup-app/eatup/internal/auth"
)

// extractCookieToken pulls the named cookie value from a raw Cookie header.
func extractCookieToken(cookieHeader, name string) string {
	parts := strings.Split(cookieHeader, name+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// authedUser authenticates the request's auth_token cookie and returns the
// caller's user id. On failure it writes the error response and returns
// ok=false; every mutating operation requires a signed-in user.
func authedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cookieHeader := r.Header.Get("Cookie")
	if !strings.Contains(cookieHeader, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	token := extractCookieToken(cookieHeader, "auth_token")

	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user id in token", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}

// PingHandler is a trivial liveness endpoint.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
