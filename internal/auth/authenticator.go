package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
	"github.com/yuzumeet/meet-auth-gateway/internal/session"
)

const (
	// exchangeTimeout bounds the outbound calls of CompleteAuthorization
	// (token exchange plus profile fetch).
	exchangeTimeout = 15 * time.Second
)

// Authenticator drives the authorization-code grant and owns the session
// writes. The provider and the store are injected so the flow is testable
// against fakes.
type Authenticator struct {
	provider provider.Interface
	store    session.Store

	now func() time.Time
}

func NewAuthenticator(p provider.Interface, store session.Store) *Authenticator {
	return &Authenticator{provider: p, store: store, now: time.Now}
}

// BeginAuthorization builds the provider authorization URL and a fresh
// anti-CSRF state. It performs no I/O: the caller sets the state cookie and
// issues the redirect.
func (a *Authenticator) BeginAuthorization(callbackURL string) (string, string, error) {
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	conf := a.provider.OAuth2Config()
	conf.RedirectURL = callbackURL

	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	return authURL, state, nil
}

// CompleteAuthorization exchanges the single-use code for tokens, fetches
// the user profile with them, and only then commits the session. Any
// failure along the way leaves the store untouched, so a session can never
// exist with tokens but no user.
func (a *Authenticator) CompleteAuthorization(ctx context.Context, code, callbackURL string) (string, *session.Session, error) {
	if code == "" {
		return "", nil, &ExchangeError{fmt.Errorf("empty authorization code")}
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	conf := a.provider.OAuth2Config()
	conf.RedirectURL = callbackURL

	tokens, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", nil, &ExchangeError{err}
	}

	user, err := a.provider.FetchProfile(ctx, oauth2.StaticTokenSource(tokens))
	if err != nil {
		return "", nil, &ProfileFetchError{err}
	}

	s := &session.Session{
		Tokens:    tokens,
		User:      user,
		CreatedAt: a.now(),
	}
	id, err := a.store.Save(ctx, s)
	if err != nil {
		return "", nil, err
	}
	return id, s, nil
}

// RefreshSession obtains a fresh access token when the stored one has
// expired and a refresh token is available, persisting the result under the
// same session id. The session deadline is not extended.
func (a *Authenticator) RefreshSession(ctx context.Context, id string, s *session.Session) (*session.Session, error) {
	if s.Tokens.Valid() || s.Tokens.RefreshToken == "" {
		return s, nil
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	tokens, err := a.provider.OAuth2Config().TokenSource(ctx, s.Tokens).Token()
	if err != nil {
		return nil, &ExchangeError{err}
	}

	refreshed := *s
	refreshed.Tokens = tokens
	if err := a.store.Update(ctx, id, &refreshed); err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// Logout destroys the session record. Calling it for an absent or already
// destroyed session is not an error.
func (a *Authenticator) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return a.store.Destroy(ctx, id)
}

func generateState() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
