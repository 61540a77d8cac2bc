package session

import (
	"context"
	"fmt"
)

// Store persists sessions keyed by an opaque, unguessable id. Lifetime is
// bounded by the store's TTL, independent of token expiry.
//
// Get reports absent or expired sessions as (nil, false, nil): not being
// logged in is expected input, not an error. Errors are reserved for store
// failures, which must not be mistaken for a logged-out user.
type Store interface {
	Save(ctx context.Context, s *Session) (string, error)
	Get(ctx context.Context, id string) (*Session, bool, error)
	Update(ctx context.Context, id string, s *Session) error
	Destroy(ctx context.Context, id string) error
}

// StoreError marks a failure of the underlying store. Handlers surface it
// as a 500-class response rather than reporting the caller as logged out.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("session store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
