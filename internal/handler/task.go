package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tasklift/tasklift/internal/ctxkeys"
	"github.com/tasklift/tasklift/internal/repository"
	"github.com/tasklift/tasklift/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

var taskAllowList = map[string]bool{
	"description": true,
	"completed":   true,
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var body struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	err := decodeJSON(r, &body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Create(user.ID, body.Description, body.Completed)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// List returns the caller's tasks, optionally filtered, sorted and
// paginated via query parameters:
//
//	GET /tasks?completed=true
//	GET /tasks?limit=10&skip=20
//	GET /tasks?sortBy=createdAt:desc
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	opts := listOptions(r)

	tasks, err := h.taskService.Tasks(user.ID, opts)
	if err != nil {
		slog.Error("failed to list tasks", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	task, err := h.taskService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "")
			return
		}
		slog.Error("failed to get task", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var body map[string]json.RawMessage
	err := decodeJSON(r, &body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for key := range body {
		if !taskAllowList[key] {
			respondError(w, http.StatusBadRequest, "invalid update field: "+key)
			return
		}
	}

	var upd service.TaskUpdate
	err = unmarshalField(body, "description", &upd.Description)
	if err == nil {
		err = unmarshalField(body, "completed", &upd.Completed)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Update(user.ID, r.PathValue("id"), upd)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	task, err := h.taskService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "")
			return
		}
		slog.Error("failed to delete task", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// listOptions parses the filter/sort/pagination query parameters. Values
// that fail to parse are ignored rather than rejected, matching the
// forgiving behavior clients already rely on.
func listOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	opts := repository.ListOptions{}

	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		opts.Completed = &completed
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			opts.Limit = n
		}
	}

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			opts.Skip = n
		}
	}

	if v := q.Get("sortBy"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		opts.SortBy = field
		opts.Descending = dir == "desc"
	}

	return opts
}
