package provider

import (
	"context"
	"errors"

	"jokehub/internal/auth"
)

// Stage errors for the callback flow. Adapters wrap the provider's
// underlying failure with %w so the orchestrator can log the cause while
// matching on the stage.
var (
	// ErrExchangeFailed marks a failed code-for-token exchange.
	ErrExchangeFailed = errors.New("oauth code exchange failed")

	// ErrUserInfoFailed marks a failed identity-endpoint call.
	ErrUserInfoFailed = errors.New("oauth user info fetch failed")

	// ErrCallbackFailed wraps either stage error for callers that only
	// care whether the provider round trip succeeded.
	ErrCallbackFailed = errors.New("oauth callback failed")
)

// OAuthProvider defines the contract every external auth provider must
// implement. Implementations return profile facts only and must not
// perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider tag (e.g. "google", "github").
	Name() string

	// AuthorizationURL builds the provider consent-screen URL carrying
	// the given anti-forgery state. It fails only on missing
	// configuration, never at request time.
	AuthorizationURL(state string) (string, error)

	// HandleCallback chains the code-for-token exchange and the
	// user-info fetch, returning the provider's raw profile payload.
	// Failures wrap ErrCallbackFailed plus the stage error.
	HandleCallback(ctx context.Context, code string) (auth.RawProfile, error)
}
