package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tasklift/tasklift/internal/config"
	"github.com/tasklift/tasklift/internal/db"
	"github.com/tasklift/tasklift/internal/repository"
	"github.com/tasklift/tasklift/internal/service"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	AuthService   *service.AuthService
	UserService   *service.UserService
	AvatarService *service.AvatarService
	TaskService   *service.TaskService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return FromDB(cfg, database), nil
}

// FromDB wires the app onto an already-open database. Tests use it with an
// in-memory SQLite handle.
func FromDB(cfg *config.Config, database *sqlx.DB) *App {
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	taskRepository := repository.NewTaskRepository(database)

	authService := service.NewAuthService(userRepository, tokenRepository, cfg.JWTSecret)
	userService := service.NewUserService(userRepository, authService)
	avatarService := service.NewAvatarService(userRepository, cfg.AvatarDim)
	taskService := service.NewTaskService(taskRepository)

	return &App{
		Cfg:           cfg,
		DB:            database,
		AuthService:   authService,
		UserService:   userService,
		AvatarService: avatarService,
		TaskService:   taskService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
