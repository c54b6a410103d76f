package resolver

import (
	"context"

	"jokehub/internal/auth"
)

// Resolver determines which local user a federated identity belongs to,
// creating or linking as needed. It is the ONLY place where
// identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error)
}
