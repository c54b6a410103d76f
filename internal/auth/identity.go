package auth

import "time"

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions,
// and is never persisted directly.
type Identity struct {
	Provider       string // "google", "github", "facebook"
	ProviderUserID string // provider-scoped unique user identifier
	Email          string // lowercased, trimmed
	Name           string // display name
	PictureURL     string // avatar URL, may be empty
	EmailVerified  bool   // whether the provider asserts email ownership
}

// RawProfile is the decoded user-info payload as returned by a provider,
// before normalization.
type RawProfile map[string]any

// User is the local account a federated identity resolves to.
type User struct {
	ID              string
	Name            string
	Email           string
	PictureURL      string
	PrimaryProvider string
	Role            string
	IsActive        bool
	CreatedAt       time.Time
	ModifiedAt      time.Time
}
