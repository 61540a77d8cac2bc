package server

import (
	"fmt"
	"net/http"

	"github.com/yuzumeet/meet-auth-gateway/internal/config"
)

const (
	stateCookieName = "csrf-state"
)

func setState(w http.ResponseWriter, state string, secure bool) {
	c := &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     pathAuthCallback,
		MaxAge:   int(config.StateCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, c)
}

func getAndDeleteStateAndCheckCSRF(w http.ResponseWriter, r *http.Request) (string, error) {
	// Get state.
	c, err := r.Cookie(stateCookieName)
	if err != nil {
		return "", fmt.Errorf("expired")
	}

	// Delete state.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   pathAuthCallback,
		MaxAge: -1,
	})

	// Check CSRF token.
	cookieState := c.Value
	queryState := state(r)
	if cookieState != queryState {
		return "", fmt.Errorf("mismatch")
	}

	return cookieState, nil
}
