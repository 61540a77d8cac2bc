package auth

import (
	"context"

	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
	"github.com/yuzumeet/meet-auth-gateway/internal/session"
)

// Projector answers "is the caller authenticated, and as whom" without ever
// exposing tokens. Read-only.
type Projector struct {
	store session.Store
}

func NewProjector(store session.Store) *Projector {
	return &Projector{store: store}
}

type Status struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	User            *provider.Profile `json:"user"`
}

// Status reports the session state. Missing, expired or half-populated
// sessions are normal input and yield {false, nil}; the error return is
// reserved for store failures.
func (p *Projector) Status(ctx context.Context, id string) (Status, error) {
	if id == "" {
		return Status{}, nil
	}

	s, ok, err := p.store.Get(ctx, id)
	if err != nil {
		return Status{}, err
	}
	if !ok || !s.Authenticated() {
		return Status{}, nil
	}
	return Status{IsAuthenticated: true, User: s.User}, nil
}

// User is the strict variant: callers that want a hard 401 signal instead
// of a boolean get ErrUnauthorized when no valid session exists.
func (p *Projector) User(ctx context.Context, id string) (*provider.Profile, error) {
	status, err := p.Status(ctx, id)
	if err != nil {
		return nil, err
	}
	if !status.IsAuthenticated {
		return nil, ErrUnauthorized
	}
	return status.User, nil
}
