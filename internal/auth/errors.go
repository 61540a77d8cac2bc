package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned by Projector.User when no valid session
// exists. Always recoverable by re-authenticating.
var ErrUnauthorized = errors.New("unauthorized")

// ExchangeError means the token exchange with the provider failed: bad,
// expired or reused code, network failure, provider outage. Authorization
// codes are single-use, so the flow must restart from the beginning.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("failed to exchange authorization code for tokens: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// ProfileFetchError means the exchange succeeded but the user-info fetch
// did not. The session is not committed: a bare token without a profile is
// not a valid authenticated session.
type ProfileFetchError struct {
	Err error
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("failed to fetch user profile: %v", e.Err)
}

func (e *ProfileFetchError) Unwrap() error {
	return e.Err
}
