// Package identity adapts external sign-in providers to local users.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/VncsRaniery/habitask-sub001/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile is what a provider tells us about the person signing in.
type Profile struct {
	Email    string
	Name     string
	Picture  string
	Verified bool
}

// Provider runs an OAuth2 authorization code flow.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

var ErrUnverifiedEmail = errors.New("email not verified by provider")

// Google signs users in with their Google account.
type Google struct {
	cfg *oauth2.Config
}

func NewGoogle(c config.OAuthConfig) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURL:  c.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"openid",
				goauth.UserinfoEmailScope,
				goauth.UserinfoProfileScope,
			},
		},
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and reads the userinfo.
func (g *Google) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := goauth.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get userinfo: %w", err)
	}

	p := &Profile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	if info.VerifiedEmail != nil {
		p.Verified = *info.VerifiedEmail
	}
	if !p.Verified {
		return nil, ErrUnverifiedEmail
	}
	return p, nil
}
