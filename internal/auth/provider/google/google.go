// Package google implements the Google OIDC provider adapter. Google is
// the only provider in the set with a discovery document, so the token
// and user-info endpoints come from go-oidc rather than being hardcoded.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jokehub/internal/auth"
	"jokehub/internal/auth/provider"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	providerName  = "google"
	defaultIssuer = "https://accounts.google.com"

	callbackTimeout = 10 * time.Second
)

type Provider struct {
	oauthConfig  *oauth2.Config
	oidcProvider *oidc.Provider
	httpClient   *http.Client
}

// New initializes the Google provider against the public issuer.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Provider, error) {
	return NewWithIssuer(ctx, clientID, clientSecret, redirectURL, defaultIssuer)
}

// NewWithIssuer initializes the provider against an explicit issuer URL.
// Used directly in tests, where the issuer is an httptest server.
func NewWithIssuer(ctx context.Context, clientID, clientSecret, redirectURL, issuer string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		oidcProvider: oidcProvider,
		httpClient:   &http.Client{Timeout: callbackTimeout},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthorizationURL builds the Google consent-screen URL.
func (p *Provider) AuthorizationURL(state string) (string, error) {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// HandleCallback exchanges the code and fetches the OIDC userinfo claims.
func (p *Provider) HandleCallback(ctx context.Context, code string) (auth.RawProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrExchangeFailed, err)
	}

	userInfo, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrUserInfoFailed, err)
	}

	var raw auth.RawProfile
	if err := userInfo.Claims(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrUserInfoFailed, err)
	}

	return raw, nil
}
