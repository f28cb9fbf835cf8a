package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tasklift/tasklift/internal/db"
	"github.com/tasklift/tasklift/internal/model"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory SQLite database with the schema applied.
// A single connection keeps the in-memory database alive for the test.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	sdb, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	sdb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sdb.Close() })

	require.NoError(t, db.RunMigrations(sdb.DB, "sqlite"))
	return sdb
}

func newTestUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         "Mike",
		Email:        email,
		PasswordHash: "$2a$08$notarealhashnotarealhashnotarealhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(user))
	return user
}

func newTestTask(t *testing.T, repo TaskRepository, ownerID, description string, completed bool) *model.Task {
	t.Helper()

	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(task))

	// Keep created_at strictly increasing so sort assertions are stable.
	time.Sleep(2 * time.Millisecond)
	return task
}
