package images

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartwardrobe/backend/internal/httpx"
)

// Handler serves the standalone upload endpoint and raw image retrieval.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// WriteUploadError maps pipeline errors onto the response taxonomy; shared
// by every handler that accepts image uploads.
func WriteUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExtNotAllowed):
		httpx.BadRequest(w, "File type not allowed. Allowed types: "+AllowedExtensions())
	case errors.Is(err, ErrTooLarge):
		httpx.BadRequest(w, "File too large")
	case errors.Is(err, ErrNotAnImage):
		httpx.BadRequest(w, "Invalid image file")
	default:
		httpx.Internal(w, err)
	}
}

// Upload handles POST /api/upload-image: validates and normalizes the file,
// then writes it to the uploads directory.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxFileSize + 1<<20); err != nil {
		httpx.BadRequest(w, "Invalid multipart form")
		return
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file is required")
		return
	}

	data, ext, _, err := ReadAndNormalize(fh)
	if err != nil {
		WriteUploadError(w, err)
		return
	}

	filename, err := h.svc.StoreLocal(ext, data)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"filename":  filename,
		"image_url": "/uploads/" + filename,
	})
}

// Serve handles GET /api/images/{id}: object store, then local file, then a
// placeholder redirect so missing media never breaks the UI.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, contentType, err := h.svc.Fetch(r.Context(), id)
	if err != nil {
		http.Redirect(w, r, PlaceholderURL(id), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
