package wardrobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

type fakeOutfitStore struct {
	outfits map[string]*models.Outfit
}

func newFakeOutfitStore() *fakeOutfitStore {
	return &fakeOutfitStore{outfits: map[string]*models.Outfit{}}
}

func (f *fakeOutfitStore) Create(_ context.Context, o *models.Outfit) error {
	cp := *o
	f.outfits[o.ID] = &cp
	return nil
}

func (f *fakeOutfitStore) ListByUser(_ context.Context, userID string) ([]models.Outfit, error) {
	var out []models.Outfit
	for _, o := range f.outfits {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOutfitStore) GetOwned(_ context.Context, id, userID string) (*models.Outfit, error) {
	o, ok := f.outfits[id]
	if !ok || o.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOutfitStore) NameTaken(_ context.Context, userID, name string) (bool, error) {
	for _, o := range f.outfits {
		if o.UserID == userID && o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOutfitStore) Update(_ context.Context, o *models.Outfit) error {
	cp := *o
	f.outfits[o.ID] = &cp
	return nil
}

func (f *fakeOutfitStore) Delete(_ context.Context, id string) error {
	delete(f.outfits, id)
	return nil
}

func (f *fakeOutfitStore) RecordUse(_ context.Context, id string, when time.Time) error {
	o, ok := f.outfits[id]
	if !ok {
		return store.ErrNotFound
	}
	o.UsageCount++
	o.LastUsed = &when
	return nil
}

type fakeImageService struct {
	stored  int
	deleted []models.ImageRef
}

func (f *fakeImageService) Store(_ context.Context, ext string, _ []byte, _ string) (models.ImageRef, error) {
	f.stored++
	return models.ObjectImage(fmt.Sprintf("img-%d%s", f.stored, ext)), nil
}

func (f *fakeImageService) Delete(_ context.Context, ref models.ImageRef) {
	f.deleted = append(f.deleted, ref)
}

func testRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/outfits", h.List)
	r.Post("/outfits", h.Create)
	r.Get("/outfits/stats", h.Stats)
	r.Put("/outfits/{id}", h.Update)
	r.Delete("/outfits/{id}", h.Delete)
	r.Post("/outfits/{id}/use", h.Use)
	return r
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func createForm(name string) map[string]string {
	return map[string]string{
		"name":      name,
		"category":  "top",
		"season":    "summer",
		"color":     "blue",
		"image_url": "https://example.com/shirt.jpg",
	}
}

func TestCreateOutfit(t *testing.T) {
	outfits := newFakeOutfitStore()
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, createForm("Linen Shirt"))
	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.OutfitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Linen Shirt", resp.Name)
	require.Equal(t, "u1", resp.UserID)
	require.Equal(t, models.StorageURL, resp.StorageType)
	require.Equal(t, "https://example.com/shirt.jpg", resp.ImageURL)
	require.Zero(t, resp.UsageCount)
	require.Len(t, outfits.outfits, 1)
}

func TestCreateOutfitMissingFields(t *testing.T) {
	h := NewHandler(newFakeOutfitStore(), &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, map[string]string{"name": "Shirt"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOutfitDuplicateName(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Linen Shirt"}
	images := &fakeImageService{}
	h := NewHandler(outfits, images)
	r := testRouter(h)

	body, contentType := multipartBody(t, createForm("Linen Shirt"))
	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	// The name check runs before image storage, so nothing was stored.
	require.Zero(t, images.stored)
}

func TestCreateOutfitSameNameOtherUser(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u2", Name: "Linen Shirt"}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, createForm("Linen Shirt"))
	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateOutfit(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Shirt", Category: "top", Season: "summer", Color: "blue"}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, map[string]string{"color": "red"})
	req := asUser(httptest.NewRequest(http.MethodPut, "/outfits/o1", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "red", outfits.outfits["o1"].Color)
	require.Equal(t, "Shirt", outfits.outfits["o1"].Name)
}

func TestUpdateOutfitNameConflict(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Shirt"}
	outfits.outfits["o2"] = &models.Outfit{ID: "o2", UserID: "u1", Name: "Jacket"}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, map[string]string{"name": "Jacket"})
	req := asUser(httptest.NewRequest(http.MethodPut, "/outfits/o1", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOutfitNotOwned(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u2", Name: "Shirt"}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	body, contentType := multipartBody(t, map[string]string{"color": "red"})
	req := asUser(httptest.NewRequest(http.MethodPut, "/outfits/o1", body), "u1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOutfitRemovesImage(t *testing.T) {
	outfits := newFakeOutfitStore()
	ref := models.ObjectImage("img-1.jpg")
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Shirt", Image: ref}
	images := &fakeImageService{}
	h := NewHandler(outfits, images)
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodDelete, "/outfits/o1", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Outfit 'Shirt' deleted successfully.")
	require.Empty(t, outfits.outfits)
	require.Equal(t, []models.ImageRef{ref}, images.deleted)
}

func TestUseOutfit(t *testing.T) {
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Shirt"}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits/o1/use", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, outfits.outfits["o1"].UsageCount)
	require.NotNil(t, outfits.outfits["o1"].LastUsed)

	req = asUser(httptest.NewRequest(http.MethodPost, "/outfits/missing/use", nil), "u1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	outfits := newFakeOutfitStore()
	for i, count := range []int{5, 1, 3, 0, 2, 4, 6} {
		id := fmt.Sprintf("o%d", i)
		outfits.outfits[id] = &models.Outfit{ID: id, UserID: "u1", Name: id, UsageCount: count}
	}
	h := NewHandler(outfits, &fakeImageService{})
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodGet, "/outfits/stats", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.OutfitStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats.MostUsed, 5)
	require.Len(t, stats.LeastUsed, 5)
	require.Equal(t, 6, stats.MostUsed[0].UsageCount)
	require.Equal(t, 0, stats.LeastUsed[0].UsageCount)

	for i := 1; i < len(stats.MostUsed); i++ {
		require.GreaterOrEqual(t, stats.MostUsed[i-1].UsageCount, stats.MostUsed[i].UsageCount)
	}
	for i := 1; i < len(stats.LeastUsed); i++ {
		require.LessOrEqual(t, stats.LeastUsed[i-1].UsageCount, stats.LeastUsed[i].UsageCount)
	}
}

func TestListEmptyWardrobe(t *testing.T) {
	h := NewHandler(newFakeOutfitStore(), &fakeImageService{})
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodGet, "/outfits", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
