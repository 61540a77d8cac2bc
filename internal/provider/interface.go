package provider

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the subset of the provider's user-info response that crosses
// the trust boundary to the browser. Tokens never do.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureUrl"`
}

type Interface interface {
	OAuth2Config() *oauth2.Config
	FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error)
}
