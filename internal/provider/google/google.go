package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/yuzumeet/meet-auth-gateway/internal/config"
	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
)

type googleProvider struct {
	conf *config.ProviderConfig

	// endpoint overrides the userinfo service endpoint in tests.
	endpoint string
}

func New(conf *config.ProviderConfig) (provider.Interface, error) {
	if conf.ClientID == "" || conf.ClientSecret == "" {
		return nil, fmt.Errorf("google provider requires clientID and clientSecret")
	}
	return &googleProvider{conf: conf}, nil
}

// OAuth2Config implements provider.Interface. The scope set is the fixed
// identity base plus whatever downstream scopes were configured; callers
// must not vary it per request.
func (g *googleProvider) OAuth2Config() *oauth2.Config {
	scopes := []string{
		"openid",
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
	scopes = append(scopes, g.conf.Scopes...)

	return &oauth2.Config{
		ClientID:     g.conf.ClientID,
		ClientSecret: g.conf.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}
}

// FetchProfile implements provider.Interface.
func (g *googleProvider) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*provider.Profile, error) {
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google userinfo service: %w", err)
	}

	ui, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}

	if ui.VerifiedEmail == nil || !*ui.VerifiedEmail {
		return nil, fmt.Errorf("google email '%s' is not verified", ui.Email)
	}

	if !g.conf.ValidateEmailDomain(ui.Email) {
		return nil, fmt.Errorf("the domain of the email '%s' is not allowed", ui.Email)
	}

	return &provider.Profile{
		ID:         ui.Id,
		Email:      ui.Email,
		Name:       ui.Name,
		PictureURL: ui.Picture,
	}, nil
}
