// Package profile exposes account detail endpoints: viewing and editing the
// profile, changing the password, and the profile picture pipeline.
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/images"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

// UserStore is the slice of the user collection this package needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UsernameInUse(ctx context.Context, username, excludeID string) (bool, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	UpdateProfile(ctx context.Context, id string, username, email, phone *string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetProfilePic(ctx context.Context, id, picID, picURL string) error
}

// ObjectStore holds profile pictures. Unlike outfit images there is no
// local fallback: uploads fail outright when the bucket is unreachable.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

type Handler struct {
	users   UserStore
	objects ObjectStore
}

func NewHandler(users UserStore, objects ObjectStore) *Handler {
	return &Handler{users: users, objects: objects}
}

// Get handles GET /api/profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "User not found")
			return
		}
		httpx.Internal(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u.Profile())
}

// Update handles PUT /api/profile. Fields arrive as multipart form values;
// absent fields keep their current value, and an empty phone clears it.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		httpx.BadRequest(w, "Invalid multipart form")
		return
	}

	var username, email, phone *string
	if vs, ok := r.MultipartForm.Value["username"]; ok && len(vs) > 0 {
		username = &vs[0]
	}
	if vs, ok := r.MultipartForm.Value["email"]; ok && len(vs) > 0 {
		email = &vs[0]
	}
	if vs, ok := r.MultipartForm.Value["phone"]; ok && len(vs) > 0 {
		phone = &vs[0]
	}

	if username != nil {
		if *username == "" {
			httpx.BadRequest(w, "Username cannot be empty")
			return
		}
		taken, err := h.users.UsernameInUse(r.Context(), *username, userID)
		if err != nil {
			httpx.Internal(w, err)
			return
		}
		if taken {
			httpx.Conflict(w, "Username already taken")
			return
		}
	}
	if email != nil {
		if *email == "" {
			httpx.BadRequest(w, "Email cannot be empty")
			return
		}
		taken, err := h.users.EmailInUse(r.Context(), *email, userID)
		if err != nil {
			httpx.Internal(w, err)
			return
		}
		if taken {
			httpx.Conflict(w, "Email already in use")
			return
		}
	}

	if err := h.users.UpdateProfile(r.Context(), userID, username, email, phone); err != nil {
		httpx.Internal(w, err)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u.Profile())
}

// ChangePassword handles POST /api/profile/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.PasswordChangeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.BadRequest(w, "Current and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		httpx.BadRequest(w, "New password must be at least 6 characters")
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		httpx.BadRequest(w, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if err := h.users.SetPassword(r.Context(), userID, string(hash)); err != nil {
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("password changed", zap.String("user_id", userID))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// UploadPic handles POST /api/profile/upload-pic. The picture goes through
// the same normalize pipeline as outfit images, straight to the profile
// bucket. The previous picture is removed best-effort.
func (h *Handler) UploadPic(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if h.objects == nil {
		httpx.Error(w, http.StatusServiceUnavailable, "Profile picture storage is unavailable")
		return
	}

	if err := r.ParseMultipartForm(images.MaxFileSize + 1<<20); err != nil {
		httpx.BadRequest(w, "Invalid multipart form")
		return
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file is required")
		return
	}

	data, ext, contentType, err := images.ReadAndNormalize(fh)
	if err != nil {
		images.WriteUploadError(w, err)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	key := uuid.NewString() + ext
	if err := h.objects.Put(r.Context(), key, data, contentType); err != nil {
		httpx.Internal(w, err)
		return
	}

	if u.ProfilePicID != "" {
		if err := h.objects.Remove(r.Context(), u.ProfilePicID); err != nil {
			zap.L().Warn("stale profile picture not removed", zap.String("key", u.ProfilePicID), zap.Error(err))
		}
	}

	picURL := "/api/profile-pic/" + key
	if err := h.users.SetProfilePic(r.Context(), userID, key, picURL); err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":         "Profile picture updated",
		"profile_pic_url": picURL,
	})
}

// ServePic handles GET /api/profile-pic/{id}. Public: pictures render on
// shared pages without a token.
func (h *Handler) ServePic(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		httpx.NotFound(w, "Profile picture not found")
		return
	}

	id := chi.URLParam(r, "id")
	data, contentType, err := h.objects.Get(r.Context(), id)
	if err != nil {
		httpx.NotFound(w, "Profile picture not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
