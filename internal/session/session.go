package session

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
)

// Session is the server-side record behind the browser cookie. It is only
// ever written whole: the authenticator commits tokens and user together
// after both the code exchange and the profile fetch succeeded.
type Session struct {
	Tokens    *oauth2.Token     `json:"tokens"`
	User      *provider.Profile `json:"user"`
	CreatedAt time.Time         `json:"createdAt"`

	expiresAt time.Time
}

type sessionKey string

// Authenticated reports whether the record represents a completed login.
// A session with only one of tokens/user set is treated as not logged in.
func (s *Session) Authenticated() bool {
	return s != nil &&
		s.Tokens != nil && s.Tokens.AccessToken != "" &&
		s.User != nil && s.User.ID != ""
}
