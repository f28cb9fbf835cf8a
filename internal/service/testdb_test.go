package service

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tasklift/tasklift/internal/db"
	"github.com/tasklift/tasklift/internal/repository"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	db     *sqlx.DB
	users  repository.UserRepository
	tokens repository.TokenRepository
	tasks  repository.TaskRepository
	auth   *AuthService
	user   *UserService
	task   *TaskService
	avatar *AvatarService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sdb, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	sdb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sdb.Close() })

	require.NoError(t, db.RunMigrations(sdb.DB, "sqlite"))

	users := repository.NewUserRepository(sdb)
	tokens := repository.NewTokenRepository(sdb)
	tasks := repository.NewTaskRepository(sdb)

	auth := NewAuthService(users, tokens, "test-secret")

	return &testEnv{
		db:     sdb,
		users:  users,
		tokens: tokens,
		tasks:  tasks,
		auth:   auth,
		user:   NewUserService(users, auth),
		task:   NewTaskService(tasks),
		avatar: NewAvatarService(users, 250),
	}
}
