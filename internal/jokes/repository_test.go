package jokes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"jokehub/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return NewRepository(&db.DB{DB: mockDB}), mock
}

func jokeRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "body", "created_at", "modified_at"})
	for _, id := range ids {
		rows.AddRow(id, "user-1", "Knock knock", "Who's there?", now, now)
	}
	return rows
}

func TestListReturnsJokes(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`FROM jokes`).
		WithArgs(listLimit).
		WillReturnRows(jokeRows("j-1", "j-2"))

	out, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "j-1", out[0].ID)
}

func TestGetNotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`FROM jokes`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReturnsRow(t *testing.T) {
	repo, mock := setupRepo(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO jokes`).
		WithArgs("user-1", "Knock knock", "Who's there?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "modified_at"}).
			AddRow("j-1", now, now))

	j, err := repo.Create(context.Background(), "user-1", "Knock knock", "Who's there?")
	require.NoError(t, err)
	assert.Equal(t, "j-1", j.ID)
	assert.Equal(t, "user-1", j.UserID)
}

func TestUpdateByNonOwnerNotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`UPDATE jokes`).
		WithArgs("t", "b", "j-1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "j-1", "intruder", "t", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByNonOwnerNotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(`DELETE FROM jokes`).
		WithArgs("j-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "j-1", "intruder")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(`DELETE FROM jokes`).
		WithArgs("j-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "j-1", "user-1")
	assert.NoError(t, err)
}
