// Package facebook implements the Facebook OAuth2 provider adapter. The
// profile comes from the Graph API; the avatar is nested under
// picture.data.url, which the normalizer unwraps.
package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jokehub/internal/auth"
	"jokehub/internal/auth/provider"

	"golang.org/x/oauth2"
	facebookoauth "golang.org/x/oauth2/facebook"
)

const (
	providerName = "facebook"

	defaultUserInfoURL = "https://graph.facebook.com/v19.0/me"
	profileFields      = "id,name,email,picture"

	callbackTimeout = 10 * time.Second
)

type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// New initializes the Facebook provider against the public Graph API.
func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return NewWithEndpoints(clientID, clientSecret, redirectURL,
		facebookoauth.Endpoint, defaultUserInfoURL)
}

// NewWithEndpoints initializes the provider against explicit endpoints.
// Used directly in tests, where the endpoints are httptest servers.
func NewWithEndpoints(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"email", "public_profile"},
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: callbackTimeout},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthorizationURL builds the Facebook consent-screen URL.
func (p *Provider) AuthorizationURL(state string) (string, error) {
	return p.oauthConfig.AuthCodeURL(state), nil
}

// HandleCallback exchanges the code and fetches the Graph API profile.
func (p *Provider) HandleCallback(ctx context.Context, code string) (auth.RawProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrExchangeFailed, err)
	}

	raw, err := p.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrUserInfoFailed, err)
	}

	return raw, nil
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (auth.RawProfile, error) {
	u, err := url.Parse(p.userInfoURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("fields", profileFields)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph api error: status %d", resp.StatusCode)
	}

	var raw auth.RawProfile
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("facebook profile decode failed: %w", err)
	}

	return raw, nil
}
