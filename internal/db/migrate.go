package db

import (
	"context"
	"database/sql"
)

// DB wraps the sql handle so repositories depend on one local type.
type DB struct {
	*sql.DB
}

const bootstrapMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL DEFAULT '',
    email text NOT NULL,
    google_id text,
    github_id text,
    facebook_id text,
    picture_url text,
    primary_provider text,
    role text NOT NULL DEFAULT 'user',
    is_active boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    modified_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS users_google_id_unique
ON users (google_id) WHERE google_id IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS users_github_id_unique
ON users (github_id) WHERE github_id IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS users_facebook_id_unique
ON users (facebook_id) WHERE facebook_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS jokes (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title text NOT NULL DEFAULT '',
    body text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    modified_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS jokes_user_id_idx
ON jokes (user_id);
`

// RunMigration applies the idempotent bootstrap schema.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
