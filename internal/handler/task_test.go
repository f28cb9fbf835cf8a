package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listTasks(t *testing.T, h http.Handler, token, query string) []map[string]any {
	t.Helper()

	rec := doJSON(t, h, http.MethodGet, "/tasks"+query, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	return tasks
}

func TestCreateTask(t *testing.T) {
	h := newTestServer(t)

	id, token := registerUser(t, h, "Mike", "mike@example.com")

	rec := doJSON(t, h, http.MethodPost, "/tasks", token, map[string]any{
		"description": "walk the dog",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "walk the dog", body["description"])
	assert.Equal(t, false, body["completed"])
	assert.Equal(t, id, body["owner"], "owner is forced to the caller")

	// Missing description fails validation.
	rec = doJSON(t, h, http.MethodPost, "/tasks", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/tasks", "", map[string]any{"description": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTask_OwnerCannotBeSpoofed(t *testing.T) {
	h := newTestServer(t)

	id, token := registerUser(t, h, "Mike", "mike@example.com")

	rec := doJSON(t, h, http.MethodPost, "/tasks", token, map[string]any{
		"description": "walk the dog",
		"owner":       "someone-else",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, id, decodeBody(t, rec)["owner"])
}

func TestListTasks_ScopedAndFiltered(t *testing.T) {
	h := newTestServer(t)

	_, mikeToken := registerUser(t, h, "Mike", "mike@example.com")
	_, annaToken := registerUser(t, h, "Anna", "anna@example.com")

	createTask(t, h, mikeToken, "mike done", true)
	createTask(t, h, mikeToken, "mike pending", false)
	createTask(t, h, annaToken, "anna done", true)

	// Unfiltered: only the caller's tasks.
	tasks := listTasks(t, h, mikeToken, "")
	require.Len(t, tasks, 2)

	// Filtered: only the caller's completed tasks; Anna's never appear.
	tasks = listTasks(t, h, mikeToken, "?completed=true")
	require.Len(t, tasks, 1)
	assert.Equal(t, "mike done", tasks[0]["description"])

	tasks = listTasks(t, h, annaToken, "?completed=true")
	require.Len(t, tasks, 1)
	assert.Equal(t, "anna done", tasks[0]["description"])
}

func TestListTasks_SortAndPaginate(t *testing.T) {
	h := newTestServer(t)

	_, token := registerUser(t, h, "Mike", "mike@example.com")
	createTask(t, h, token, "alpha", false)
	createTask(t, h, token, "charlie", false)
	createTask(t, h, token, "bravo", false)

	tasks := listTasks(t, h, token, "?sortBy=description:desc")
	require.Len(t, tasks, 3)
	assert.Equal(t, "charlie", tasks[0]["description"])

	tasks = listTasks(t, h, token, "?sortBy=description:asc")
	assert.Equal(t, "alpha", tasks[0]["description"])

	// Any direction other than "desc" means ascending.
	tasks = listTasks(t, h, token, "?sortBy=description:bogus")
	assert.Equal(t, "alpha", tasks[0]["description"])

	tasks = listTasks(t, h, token, "?sortBy=description&limit=1&skip=1")
	require.Len(t, tasks, 1)
	assert.Equal(t, "bravo", tasks[0]["description"])

	// Empty result is a success, not a 404.
	tasks = listTasks(t, h, token, "?skip=10")
	assert.Empty(t, tasks)
}

func TestGetTask_OtherOwnerIsNotFound(t *testing.T) {
	h := newTestServer(t)

	_, mikeToken := registerUser(t, h, "Mike", "mike@example.com")
	_, annaToken := registerUser(t, h, "Anna", "anna@example.com")

	taskID := createTask(t, h, mikeToken, "private", false)

	rec := doJSON(t, h, http.MethodGet, "/tasks/"+taskID, mikeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Anna sees a 404, not a permission error.
	rec = doJSON(t, h, http.MethodGet, "/tasks/"+taskID, annaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/tasks/no-such-id", mikeToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTask(t *testing.T) {
	h := newTestServer(t)

	_, token := registerUser(t, h, "Mike", "mike@example.com")
	taskID := createTask(t, h, token, "original", false)

	rec := doJSON(t, h, http.MethodPatch, "/tasks/"+taskID, token, map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["completed"])
	assert.Equal(t, "original", body["description"])
}

func TestUpdateTask_RejectsUnknownFields(t *testing.T) {
	h := newTestServer(t)

	_, token := registerUser(t, h, "Mike", "mike@example.com")
	taskID := createTask(t, h, token, "original", false)

	rec := doJSON(t, h, http.MethodPatch, "/tasks/"+taskID, token, map[string]any{
		"completed": true,
		"priority":  "high",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was persisted.
	rec = doJSON(t, h, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["completed"])
}

func TestUpdateTask_RequiresAuth(t *testing.T) {
	h := newTestServer(t)

	_, token := registerUser(t, h, "Mike", "mike@example.com")
	taskID := createTask(t, h, token, "original", false)

	rec := doJSON(t, h, http.MethodPatch, "/tasks/"+taskID, "", map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateTask_OtherOwnerIsNotFound(t *testing.T) {
	h := newTestServer(t)

	_, mikeToken := registerUser(t, h, "Mike", "mike@example.com")
	_, annaToken := registerUser(t, h, "Anna", "anna@example.com")

	taskID := createTask(t, h, mikeToken, "private", false)

	rec := doJSON(t, h, http.MethodPatch, "/tasks/"+taskID, annaToken, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	h := newTestServer(t)

	_, mikeToken := registerUser(t, h, "Mike", "mike@example.com")
	_, annaToken := registerUser(t, h, "Anna", "anna@example.com")

	taskID := createTask(t, h, mikeToken, "done with this", false)

	// Another owner cannot delete it.
	rec := doJSON(t, h, http.MethodDelete, "/tasks/"+taskID, annaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/tasks/"+taskID, mikeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done with this", decodeBody(t, rec)["description"], "deleted task is echoed back")

	rec = doJSON(t, h, http.MethodDelete, "/tasks/"+taskID, mikeToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
