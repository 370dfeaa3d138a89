package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/auth"
)

const authCookie = "auth_token"

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// EnsureGuest returns the player id carried by the request's auth cookie. A missing or invalid
// token gets a fresh guest identity, whose token is set as a cookie on w.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if token := extractCookieToken(r.Header.Get("Cookie"), authCookie); token != "" {
		if id, err := auth.PlayerID(token); err == nil {
			return id, nil
		}
	}

	id, token, err := auth.NewGuest()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}
