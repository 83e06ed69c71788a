// Package wardrobe implements outfit CRUD, usage recording, and the
// most/least-worn statistics.
package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/images"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

// OutfitStore is the outfit persistence this package needs.
type OutfitStore interface {
	Create(ctx context.Context, o *models.Outfit) error
	ListByUser(ctx context.Context, userID string) ([]models.Outfit, error)
	GetOwned(ctx context.Context, id, userID string) (*models.Outfit, error)
	NameTaken(ctx context.Context, userID, name string) (bool, error)
	Update(ctx context.Context, o *models.Outfit) error
	Delete(ctx context.Context, id string) error
	RecordUse(ctx context.Context, id string, when time.Time) error
}

// ImageService stores and deletes outfit image binaries.
type ImageService interface {
	Store(ctx context.Context, ext string, data []byte, contentType string) (models.ImageRef, error)
	Delete(ctx context.Context, ref models.ImageRef)
}

type Handler struct {
	outfits OutfitStore
	images  ImageService
}

func NewHandler(outfits OutfitStore, images ImageService) *Handler {
	return &Handler{outfits: outfits, images: images}
}

// List handles GET /api/outfits.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	outfits, err := h.outfits.ListByUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	resp := make([]models.OutfitResponse, 0, len(outfits))
	for i := range outfits {
		resp = append(resp, outfits[i].Response())
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/outfits. Metadata arrives as multipart form
// values; the image is either an uploaded file or an external image_url.
// The duplicate-name check runs before any image work so a rejected request
// leaves no orphaned binary behind.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(images.MaxFileSize + 1<<20); err != nil {
		httpx.BadRequest(w, "Invalid multipart form")
		return
	}

	name := r.FormValue("name")
	category := r.FormValue("category")
	season := r.FormValue("season")
	color := r.FormValue("color")
	if name == "" || category == "" || season == "" || color == "" {
		httpx.BadRequest(w, "name, category, season, and color are required")
		return
	}

	taken, err := h.outfits.NameTaken(r.Context(), userID, name)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if taken {
		httpx.Conflict(w, fmt.Sprintf("An outfit named '%s' already exists.", name))
		return
	}

	ref, ok := h.imageFromRequest(w, r)
	if !ok {
		return
	}

	outfit := &models.Outfit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Category:  category,
		Season:    season,
		Color:     color,
		Image:     ref,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.outfits.Create(r.Context(), outfit); err != nil {
		h.images.Delete(r.Context(), ref)
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("outfit created", zap.String("outfit_id", outfit.ID), zap.String("user_id", userID))
	httpx.JSON(w, http.StatusCreated, outfit.Response())
}

// Update handles PUT /api/outfits/{id}. Any replaced image gets its old
// binary removed after the document update lands.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	outfit, err := h.outfits.GetOwned(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return
		}
		httpx.Internal(w, err)
		return
	}

	if err := r.ParseMultipartForm(images.MaxFileSize + 1<<20); err != nil {
		httpx.BadRequest(w, "Invalid multipart form")
		return
	}

	if name := r.FormValue("name"); name != "" && name != outfit.Name {
		taken, err := h.outfits.NameTaken(r.Context(), userID, name)
		if err != nil {
			httpx.Internal(w, err)
			return
		}
		if taken {
			httpx.Conflict(w, fmt.Sprintf("An outfit named '%s' already exists.", name))
			return
		}
		outfit.Name = name
	}
	if v := r.FormValue("category"); v != "" {
		outfit.Category = v
	}
	if v := r.FormValue("season"); v != "" {
		outfit.Season = v
	}
	if v := r.FormValue("color"); v != "" {
		outfit.Color = v
	}

	oldRef := outfit.Image
	replaced := false
	if _, fh, err := r.FormFile("file"); err == nil {
		data, ext, contentType, perr := images.ReadAndNormalize(fh)
		if perr != nil {
			images.WriteUploadError(w, perr)
			return
		}
		ref, serr := h.images.Store(r.Context(), ext, data, contentType)
		if serr != nil {
			httpx.Internal(w, serr)
			return
		}
		outfit.Image = ref
		replaced = true
	} else if url := r.FormValue("image_url"); url != "" {
		outfit.Image = models.ExternalImage(url)
		replaced = !oldRef.IsZero() && oldRef != outfit.Image
	}

	if err := h.outfits.Update(r.Context(), outfit); err != nil {
		httpx.Internal(w, err)
		return
	}
	if replaced && oldRef != outfit.Image {
		h.images.Delete(r.Context(), oldRef)
	}

	httpx.JSON(w, http.StatusOK, outfit.Response())
}

// Delete handles DELETE /api/outfits/{id}. The stored image binary goes
// first, best-effort, then the document.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	outfit, err := h.outfits.GetOwned(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return
		}
		httpx.Internal(w, err)
		return
	}

	h.images.Delete(r.Context(), outfit.Image)
	if err := h.outfits.Delete(r.Context(), id); err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Outfit '%s' deleted successfully.", outfit.Name),
	})
}

// Use handles POST /api/outfits/{id}/use.
func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	if _, err := h.outfits.GetOwned(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return
		}
		httpx.Internal(w, err)
		return
	}

	if err := h.outfits.RecordUse(r.Context(), id, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found")
			return
		}
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Outfit usage recorded"})
}

// Stats handles GET /api/outfits/stats: the five most-worn outfits (highest
// first) and the five least-worn (lowest first). Ties keep retrieval order.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	outfits, err := h.outfits.ListByUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	most := make([]models.Outfit, len(outfits))
	copy(most, outfits)
	sort.SliceStable(most, func(i, j int) bool { return most[i].UsageCount > most[j].UsageCount })

	least := make([]models.Outfit, len(outfits))
	copy(least, outfits)
	sort.SliceStable(least, func(i, j int) bool { return least[i].UsageCount < least[j].UsageCount })

	stats := models.OutfitStats{
		MostUsed:  toResponses(most, 5),
		LeastUsed: toResponses(least, 5),
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func toResponses(outfits []models.Outfit, limit int) []models.OutfitResponse {
	if len(outfits) > limit {
		outfits = outfits[:limit]
	}
	resp := make([]models.OutfitResponse, 0, len(outfits))
	for i := range outfits {
		resp = append(resp, outfits[i].Response())
	}
	return resp
}

// imageFromRequest resolves the image for a create request: an uploaded
// file wins over an image_url form value; neither leaves the outfit without
// an image. Writes the error response itself and reports success.
func (h *Handler) imageFromRequest(w http.ResponseWriter, r *http.Request) (models.ImageRef, bool) {
	if _, fh, err := r.FormFile("file"); err == nil {
		data, ext, contentType, perr := images.ReadAndNormalize(fh)
		if perr != nil {
			images.WriteUploadError(w, perr)
			return models.ImageRef{}, false
		}
		ref, serr := h.images.Store(r.Context(), ext, data, contentType)
		if serr != nil {
			httpx.Internal(w, serr)
			return models.ImageRef{}, false
		}
		return ref, true
	}
	if url := r.FormValue("image_url"); url != "" {
		return models.ExternalImage(url), true
	}
	return models.ImageRef{}, true
}
