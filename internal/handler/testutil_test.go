package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tasklift/tasklift/internal/app"
	"github.com/tasklift/tasklift/internal/config"
	"github.com/tasklift/tasklift/internal/db"
	"github.com/tasklift/tasklift/internal/routes"
	_ "modernc.org/sqlite"
)

// newTestServer wires the full route table onto an in-memory database, so
// these tests exercise exactly what production serves.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	sdb, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	sdb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sdb.Close() })

	require.NoError(t, db.RunMigrations(sdb.DB, "sqlite"))

	cfg := &config.Config{
		AppEnv:        "development",
		JWTSecret:     "test-secret",
		AvatarMaxSize: 1 << 20,
		AvatarDim:     250,
	}

	return routes.SetupRoutes(app.FromDB(cfg, sdb))
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// registerUser registers an account and returns its id and session token.
func registerUser(t *testing.T, h http.Handler, name, email string) (id, token string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/users", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "red1234!",
		"age":      30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)

	return user["id"].(string), body["token"].(string)
}

// createTask creates a task for the token's owner and returns its id.
func createTask(t *testing.T, h http.Handler, token, description string, completed bool) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/tasks", token, map[string]any{
		"description": description,
		"completed":   completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeBody(t, rec)["id"].(string)
}

// uploadAvatar posts a multipart body with the given filename and content.
func uploadAvatar(t *testing.T, h http.Handler, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
