// Package github implements the GitHub OAuth2 provider adapter. GitHub
// has no OIDC userinfo endpoint: the profile comes from the REST API and
// the email may require a second call because profiles can hide it.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jokehub/internal/auth"
	"jokehub/internal/auth/provider"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	providerName = "github"

	defaultUserURL   = "https://api.github.com/user"
	defaultEmailsURL = "https://api.github.com/user/emails"

	callbackTimeout = 10 * time.Second
)

type Provider struct {
	oauthConfig *oauth2.Config
	userURL     string
	emailsURL   string
	httpClient  *http.Client
}

// New initializes the GitHub provider against the public API.
func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return NewWithEndpoints(clientID, clientSecret, redirectURL,
		githuboauth.Endpoint, defaultUserURL, defaultEmailsURL)
}

// NewWithEndpoints initializes the provider against explicit endpoints.
// Used directly in tests, where the endpoints are httptest servers.
func NewWithEndpoints(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userURL, emailsURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		userURL:    userURL,
		emailsURL:  emailsURL,
		httpClient: &http.Client{Timeout: callbackTimeout},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthorizationURL builds the GitHub consent-screen URL.
func (p *Provider) AuthorizationURL(state string) (string, error) {
	return p.oauthConfig.AuthCodeURL(state), nil
}

// HandleCallback exchanges the code, fetches /user, and falls back to
// /user/emails when the profile email is private.
func (p *Provider) HandleCallback(ctx context.Context, code string) (auth.RawProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrExchangeFailed, err)
	}

	var raw auth.RawProfile
	if err := p.getJSON(ctx, p.userURL, token.AccessToken, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrUserInfoFailed, err)
	}
	// A 200 with a JSON null body decodes into a nil map; treat it as a
	// user-info failure rather than writing into it below.
	if raw == nil {
		return nil, fmt.Errorf("%w: %w: github: empty profile body", provider.ErrCallbackFailed, provider.ErrUserInfoFailed)
	}

	if email, _ := raw["email"].(string); email == "" {
		email, verified, err := p.primaryEmail(ctx, token.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %w", provider.ErrCallbackFailed, provider.ErrUserInfoFailed, err)
		}
		raw["email"] = email
		raw["email_verified"] = verified
	}

	return raw, nil
}

type emailEntry struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// primaryEmail picks the primary verified address, falling back to any
// verified one, then to the first listed.
func (p *Provider) primaryEmail(ctx context.Context, accessToken string) (string, bool, error) {
	var emails []emailEntry
	if err := p.getJSON(ctx, p.emailsURL, accessToken, &emails); err != nil {
		return "", false, err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, emails[0].Verified, nil
	}
	return "", false, errors.New("github: no email on account")
}

func (p *Provider) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api error: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
