package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jokehub/internal/auth"
	"jokehub/internal/db"

	"github.com/lib/pq"
)

// providerColumn whitelists the users column holding each provider's id.
// Column names are interpolated into SQL, so lookups outside this map
// must fail.
var providerColumn = map[string]string{
	auth.ProviderGoogle:   "google_id",
	auth.ProviderGitHub:   "github_id",
	auth.ProviderFacebook: "facebook_id",
}

const userColumns = `id, name, email, COALESCE(picture_url, ''), COALESCE(primary_provider, ''), role, is_active, created_at, modified_at`

// DBResolver reconciles identities against the users table. Uniqueness
// is enforced by the database: unique indexes on LOWER(email) and on
// each provider id column. A concurrent first login hitting one of those
// indexes is resolved by re-running the lookup, not by locking.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error) {
	if identity == nil {
		return nil, errors.New("resolver: identity is nil")
	}
	col, ok := providerColumn[identity.Provider]
	if !ok {
		return nil, fmt.Errorf("resolver: unknown provider %q", identity.Provider)
	}

	user, err := r.resolve(ctx, col, identity)
	if isUniqueViolation(err) {
		// Lost a race against a concurrent callback for the same new
		// identity. The winner's row exists now; re-read it.
		user, err = r.resolve(ctx, col, identity)
	}
	return user, err
}

func (r *DBResolver) resolve(ctx context.Context, col string, identity *auth.Identity) (*auth.User, error) {
	// 1. Lookup by provider id.
	user, err := r.findBy(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, col),
		identity.ProviderUserID,
	)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return r.refreshProfile(ctx, user, identity)
	}

	// 2. Lookup by email: an existing account logging in through a new
	// provider gets the id attached instead of a duplicate row.
	user, err = r.findBy(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns),
		identity.Email,
	)
	if err != nil {
		return nil, err
	}
	if user != nil {
		_, err = r.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE users SET %s = $1, modified_at = NOW() WHERE id = $2`, col),
			identity.ProviderUserID, user.ID,
		)
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	// 3. Brand-new identity: create the user with this provider slot set.
	return r.create(ctx, col, identity)
}

func (r *DBResolver) findBy(ctx context.Context, query string, arg any) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PictureURL, &u.PrimaryProvider,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.ModifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// refreshProfile updates the mutable profile fields on every login so the
// local record tracks the provider's.
func (r *DBResolver) refreshProfile(ctx context.Context, user *auth.User, identity *auth.Identity) (*auth.User, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1,
		    picture_url = NULLIF($2, ''),
		    modified_at = NOW()
		WHERE id = $3
	`, identity.Name, identity.PictureURL, user.ID)
	if err != nil {
		return nil, err
	}

	user.Name = identity.Name
	if identity.PictureURL != "" {
		user.PictureURL = identity.PictureURL
	}
	return user, nil
}

func (r *DBResolver) create(ctx context.Context, col string, identity *auth.Identity) (*auth.User, error) {
	u := auth.User{
		Name:            identity.Name,
		Email:           identity.Email,
		PictureURL:      identity.PictureURL,
		PrimaryProvider: identity.Provider,
	}

	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`
			INSERT INTO users (name, email, %s, picture_url, primary_provider)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)
			RETURNING id, role, is_active, created_at, modified_at
		`, col),
		identity.Name, identity.Email, identity.ProviderUserID,
		identity.PictureURL, identity.Provider,
	).Scan(&u.ID, &u.Role, &u.IsActive, &u.CreatedAt, &u.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
