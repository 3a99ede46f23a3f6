package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/config"
	"github.com/mkarlsson/cvscreen/internal/store"
)

// userStore is the subset of the store the auth handlers need.
type userStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	users     userStore
	passwords *config.PasswordConfig
	jwt       *JWTService
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(users userStore, passwords *config.PasswordConfig, jwt *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		passwords: passwords,
		jwt:       jwt,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, validationError(err))
		return
	}

	hash, err := h.passwords.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		writeError(w, err)
		return
	}

	id, err := h.users.CreateUser(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, &ErrEmailAlreadyExists{Email: req.Email})
			return
		}
		h.logger.Error("user creation failed", zap.Error(err))
		writeError(w, err)
		return
	}

	token, err := h.jwt.GenerateToken(id)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, UserID: id})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, validationError(err))
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		writeError(w, err)
		return
	}
	if user == nil || !h.passwords.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, &ErrInvalidCredentials{})
		return
	}

	token, err := h.jwt.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, UserID: user.ID})
}

// validationError converts a validator error into the API error shape,
// reporting the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
	}
	return &ErrValidation{Field: "(request)", Message: err.Error()}
}
