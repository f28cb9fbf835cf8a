package routes

import (
	"net/http"

	"github.com/tasklift/tasklift/internal/app"
	"github.com/tasklift/tasklift/internal/handler"
	"github.com/tasklift/tasklift/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	user := handler.NewUserHandler(app.AuthService, app.UserService, app.AvatarService, app.Cfg.AvatarMaxSize)
	task := handler.NewTaskHandler(app.TaskService)

	mux := http.NewServeMux()

	auth := middleware.RequireAuth(app.AuthService)
	rateLimiter := middleware.RateLimitAuth()

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Users (public)
	mux.HandleFunc("POST /users", rateLimiter(user.Register))
	mux.HandleFunc("POST /users/login", rateLimiter(user.Login))
	mux.HandleFunc("GET /users/{id}/avatar", user.AvatarByID)

	// Users (protected)
	mux.HandleFunc("POST /users/logout", auth(user.Logout))
	mux.HandleFunc("POST /users/logout_all", auth(user.LogoutAll))
	mux.HandleFunc("GET /users/me", auth(user.Me))
	mux.HandleFunc("PATCH /users/me", auth(user.UpdateMe))
	mux.HandleFunc("DELETE /users/me", auth(user.DeleteMe))
	mux.HandleFunc("POST /users/me/avatar", auth(user.UploadAvatar))
	mux.HandleFunc("DELETE /users/me/avatar", auth(user.DeleteAvatar))

	// Tasks (all protected, including PATCH)
	mux.HandleFunc("POST /tasks", auth(task.Create))
	mux.HandleFunc("GET /tasks", auth(task.List))
	mux.HandleFunc("GET /tasks/{id}", auth(task.Get))
	mux.HandleFunc("PATCH /tasks/{id}", auth(task.Update))
	mux.HandleFunc("DELETE /tasks/{id}", auth(task.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
	)
}
