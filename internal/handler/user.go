package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tasklift/tasklift/internal/ctxkeys"
	"github.com/tasklift/tasklift/internal/service"
	"github.com/tasklift/tasklift/internal/validation"
)

type UserHandler struct {
	authService   *service.AuthService
	userService   *service.UserService
	avatarService *service.AvatarService
	avatarMaxSize int64
}

func NewUserHandler(
	authService *service.AuthService,
	userService *service.UserService,
	avatarService *service.AvatarService,
	avatarMaxSize int64,
) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		avatarService: avatarService,
		avatarMaxSize: avatarMaxSize,
	}
}

// profileAllowList is the full set of PATCH /users/me keys. A request
// containing anything else is rejected before any field is touched.
var profileAllowList = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      int    `json:"age"`
	}
	err := decodeJSON(r, &body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(body.Name, body.Email, body.Password, body.Age)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &body)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrUnableToLogin.Error())
		return
	}

	user, err := h.authService.Login(body.Email, body.Password)
	if err != nil {
		respondError(w, http.StatusNotFound, service.ErrUnableToLogin.Error())
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// Logout revokes only the token this request authenticated with; other
// sessions of the same user stay valid.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	token := ctxkeys.Token(r.Context())

	err := h.authService.RevokeToken(user.ID, token)
	if err != nil {
		slog.Error("logout failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.RevokeAll(user.ID)
	if err != nil {
		slog.Error("logout all failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var body map[string]json.RawMessage
	err := decodeJSON(r, &body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for key := range body {
		if !profileAllowList[key] {
			respondError(w, http.StatusBadRequest, "invalid update field: "+key)
			return
		}
	}

	var upd service.ProfileUpdate
	err = unmarshalField(body, "name", &upd.Name)
	if err == nil {
		err = unmarshalField(body, "email", &upd.Email)
	}
	if err == nil {
		err = unmarshalField(body, "password", &upd.Password)
	}
	if err == nil {
		err = unmarshalField(body, "age", &upd.Age)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, upd)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	deleted, err := h.userService.Delete(user.ID)
	if err != nil {
		slog.Error("failed to delete user", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	respondJSON(w, http.StatusOK, deleted)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Enforce the configured upload limit; the slack covers multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.avatarMaxSize+4096)

	err := r.ParseMultipartForm(h.avatarMaxSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateImageFile(header, validation.AvatarConstraints(h.avatarMaxSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.avatarService.Set(user.ID, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AvatarByID serves the stored PNG for any user; this route is public.
func (h *UserHandler) AvatarByID(w http.ResponseWriter, r *http.Request) {
	data, err := h.avatarService.ByUserID(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, err = w.Write(data)
	if err != nil {
		slog.Error("failed to write avatar", "error", err)
	}
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.avatarService.Clear(user.ID)
	if err != nil {
		slog.Error("failed to delete avatar", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// unmarshalField decodes one optional JSON field into a typed pointer.
func unmarshalField[T any](body map[string]json.RawMessage, key string, dst **T) error {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	var v T
	err := json.Unmarshal(raw, &v)
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}
