package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

// UserStore defines the user persistence auth needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the registration and login HTTP handlers.
type Handler struct {
	users    UserStore
	secret   string
	validate *validator.Validate
}

func NewHandler(users UserStore, secret string) *Handler {
	return &Handler{users: users, secret: secret, validate: validator.New()}
}

// Register creates a user and returns a fresh session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "username, email, password, and gender are required")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		httpx.Conflict(w, "Username already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		httpx.Internal(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Gender:       req.Gender,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		httpx.Internal(w, err)
		return
	}

	token, err := NewToken(h.secret, user.ID, user.Username)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("user registered", zap.String("user_id", user.ID))
	httpx.JSON(w, http.StatusCreated, models.TokenResponse{Token: token, Username: user.Username})
}

// Login verifies credentials and returns a fresh session token. Unknown
// user and bad password fail identically.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Unauthorized(w, "Invalid credentials")
			return
		}
		httpx.Internal(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpx.Unauthorized(w, "Invalid credentials")
		return
	}

	token, err := NewToken(h.secret, user.ID, user.Username)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, models.TokenResponse{Token: token, Username: user.Username})
}
