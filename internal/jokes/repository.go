package jokes

import (
	"context"
	"database/sql"
	"errors"

	"jokehub/internal/db"
)

// ErrNotFound covers both a missing joke and a mutation attempted by a
// non-owner; callers cannot distinguish the two.
var ErrNotFound = errors.New("joke not found")

const listLimit = 50

type Repository struct {
	db *db.DB
}

func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Joke, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, body, created_at, modified_at
		FROM jokes
		ORDER BY created_at DESC
		LIMIT $1
	`, listLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Joke{}
	for rows.Next() {
		var j Joke
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Body, &j.CreatedAt, &j.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*Joke, error) {
	var j Joke
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, body, created_at, modified_at
		FROM jokes
		WHERE id = $1
	`, id).Scan(&j.ID, &j.UserID, &j.Title, &j.Body, &j.CreatedAt, &j.ModifiedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repository) Create(ctx context.Context, userID, title, body string) (*Joke, error) {
	j := Joke{UserID: userID, Title: title, Body: body}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO jokes (user_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, modified_at
	`, userID, title, body).Scan(&j.ID, &j.CreatedAt, &j.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Update is owner-scoped: the WHERE clause includes user_id, so updating
// someone else's joke reports ErrNotFound.
func (r *Repository) Update(ctx context.Context, id, userID, title, body string) (*Joke, error) {
	var j Joke
	err := r.db.QueryRowContext(ctx, `
		UPDATE jokes
		SET title = $1, body = $2, modified_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, title, body, created_at, modified_at
	`, title, body, id, userID).Scan(&j.ID, &j.UserID, &j.Title, &j.Body, &j.CreatedAt, &j.ModifiedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM jokes
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
