package server

import (
	"net/http"

	"github.com/yuzumeet/meet-auth-gateway/internal/config"
)

func setSessionCookie(w http.ResponseWriter, conf *config.SessionConfig, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     conf.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(conf.TTLDuration().Seconds()),
		HttpOnly: true,
		Secure:   conf.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, conf *config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     conf.CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   conf.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionID returns the opaque id from the session cookie, or empty when
// the browser has none. An empty id is normal input for the projector.
func sessionID(r *http.Request, conf *config.SessionConfig) string {
	c, err := r.Cookie(conf.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
