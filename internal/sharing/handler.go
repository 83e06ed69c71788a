// Package sharing implements public share links: minting tokens, the
// anonymous outfit view, and importing a shared outfit into one's own
// wardrobe.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

// maxTokenAttempts bounds the mint-and-recheck loop.
const maxTokenAttempts = 5

type ShareStore interface {
	Create(ctx context.Context, s *models.SharedOutfit) error
	GetByToken(ctx context.Context, token string) (*models.SharedOutfit, error)
	TokenInUse(ctx context.Context, token string) (bool, error)
}

type OutfitStore interface {
	Create(ctx context.Context, o *models.Outfit) error
	GetByID(ctx context.Context, id string) (*models.Outfit, error)
	GetOwned(ctx context.Context, id, userID string) (*models.Outfit, error)
	NameTaken(ctx context.Context, userID, name string) (bool, error)
}

type Handler struct {
	shares      ShareStore
	outfits     OutfitStore
	frontendURL string
}

func NewHandler(shares ShareStore, outfits OutfitStore, frontendURL string) *Handler {
	return &Handler{shares: shares, outfits: outfits, frontendURL: frontendURL}
}

// Share handles POST /api/outfits/{id}/share: mints a fresh token for an
// owned outfit and records its 30-day expiry.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	outfitID := chi.URLParam(r, "id")

	if _, err := h.outfits.GetOwned(r.Context(), outfitID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return
		}
		httpx.Internal(w, err)
		return
	}

	token, err := h.mintToken(r.Context())
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	now := time.Now().UTC()
	share := &models.SharedOutfit{
		ID:         uuid.NewString(),
		OutfitID:   outfitID,
		ShareToken: token,
		CreatedAt:  now,
		ExpiresAt:  now.Add(models.ShareTTL),
	}
	if err := h.shares.Create(r.Context(), share); err != nil {
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("outfit shared", zap.String("outfit_id", outfitID))
	httpx.JSON(w, http.StatusOK, models.ShareResponse{
		ShareURL:  "/shared-outfit/" + token,
		ExpiresAt: share.ExpiresAt,
	})
}

func (h *Handler) mintToken(ctx context.Context) (string, error) {
	for i := 0; i < maxTokenAttempts; i++ {
		token := uuid.NewString()
		inUse, err := h.shares.TokenInUse(ctx, token)
		if err != nil {
			return "", err
		}
		if !inUse {
			return token, nil
		}
	}
	return "", errors.New("sharing: could not mint a unique token")
}

// resolve loads a share link and distinguishes unknown (404) from expired
// (410). Writes the error response itself.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, token string) (*models.SharedOutfit, *models.Outfit, bool) {
	share, err := h.shares.GetByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Share link not found")
			return nil, nil, false
		}
		httpx.Internal(w, err)
		return nil, nil, false
	}
	if share.Expired(time.Now().UTC()) {
		httpx.Gone(w, "Share link has expired")
		return nil, nil, false
	}

	outfit, err := h.outfits.GetByID(r.Context(), share.OutfitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return nil, nil, false
		}
		httpx.Internal(w, err)
		return nil, nil, false
	}
	return share, outfit, true
}

// PublicView handles GET /api/shared-outfit/{token}: the anonymous
// projection without owner identity or usage history.
func (h *Handler) PublicView(w http.ResponseWriter, r *http.Request) {
	_, outfit, ok := h.resolve(w, r, chi.URLParam(r, "token"))
	if !ok {
		return
	}

	httpx.JSON(w, http.StatusOK, models.PublicOutfitView{
		ID:        outfit.ID,
		Name:      outfit.Name,
		Category:  outfit.Category,
		Season:    outfit.Season,
		Color:     outfit.Color,
		ImageURL:  outfit.Image.URL(),
		CreatedAt: outfit.CreatedAt,
	})
}

// Redirect handles GET /share/{token}: bounces the bare link to the
// frontend page that renders the public view.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	http.Redirect(w, r, h.frontendURL+"/shared-outfit/"+token, http.StatusFound)
}

// AddToWardrobe handles POST /api/shared-outfit/{token}/add-to-wardrobe:
// copies the
// shared outfit into the caller's wardrobe. The copy references the
// original's image by URL only, so deleting the copy can never destroy a
// binary the copier does not own.
func (h *Handler) AddToWardrobe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	_, outfit, ok := h.resolve(w, r, chi.URLParam(r, "token"))
	if !ok {
		return
	}

	taken, err := h.outfits.NameTaken(r.Context(), userID, outfit.Name)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if taken {
		httpx.Conflict(w, fmt.Sprintf("You already have an outfit named '%s' in your wardrobe", outfit.Name))
		return
	}

	var image models.ImageRef
	if !outfit.Image.IsZero() {
		image = models.ExternalImage(outfit.Image.URL())
	}

	clone := &models.Outfit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      outfit.Name,
		Category:  outfit.Category,
		Season:    outfit.Season,
		Color:     outfit.Color,
		Image:     image,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.outfits.Create(r.Context(), clone); err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, clone.Response())
}
