package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"readingtracker/internal/auth"
	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUsername(ctx context.Context, username string) (entity.User, error)
	GetByID(ctx context.Context, id int64) (entity.User, error)
}

type AuthHandler struct {
	users    UserStore
	secret   string
	tokenTTL time.Duration
}

func NewAuthHandler(users UserStore, secret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, tokenTTL: tokenTTL}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid registration data", details...)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "weak_password", err.Error())
		return
	}

	user := entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.RoleStudent,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := h.users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "Username or email already taken")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create user")
		return
	}

	httpx.JSONSuccessCreated(w, user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Username and password are required", details...)
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		// same response for unknown user and bad password
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	token, err := auth.GenerateToken(h.secret, user.ID, user.Role, h.tokenTTL)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not issue token")
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	httpx.JSONSuccess(w, user)
}
