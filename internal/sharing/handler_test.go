package sharing

import (
	"context"
	"encoding/json"
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

type fakeShareStore struct {
	byToken map[string]*models.SharedOutfit
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{byToken: map[string]*models.SharedOutfit{}}
}

func (f *fakeShareStore) Create(_ context.Context, s *models.SharedOutfit) error {
	f.byToken[s.ShareToken] = s
	return nil
}

func (f *fakeShareStore) GetByToken(_ context.Context, token string) (*models.SharedOutfit, error) {
	s, ok := f.byToken[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeShareStore) TokenInUse(_ context.Context, token string) (bool, error) {
	_, ok := f.byToken[token]
	return ok, nil
}

type fakeOutfitStore struct {
	outfits map[string]*models.Outfit
	created []*models.Outfit
}

func newFakeOutfitStore() *fakeOutfitStore {
	return &fakeOutfitStore{outfits: map[string]*models.Outfit{}}
}

func (f *fakeOutfitStore) Create(_ context.Context, o *models.Outfit) error {
	f.outfits[o.ID] = o
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOutfitStore) GetByID(_ context.Context, id string) (*models.Outfit, error) {
	o, ok := f.outfits[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOutfitStore) GetOwned(_ context.Context, id, userID string) (*models.Outfit, error) {
	o, ok := f.outfits[id]
	if !ok || o.UserID != userID {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOutfitStore) NameTaken(_ context.Context, userID, name string) (bool, error) {
	for _, o := range f.outfits {
		if o.UserID == userID && o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func testRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/outfits/{id}/share", h.Share)
	r.Get("/shared-outfit/{token}", h.PublicView)
	r.Get("/share/{token}", h.Redirect)
	r.Post("/shared-outfit/{token}/add-to-wardrobe", h.AddToWardrobe)
	return r
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestShareOutfit(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u1", Name: "Shirt"}
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits/o1/share", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.ShareURL, "/shared-outfit/")
	require.WithinDuration(t, time.Now().Add(models.ShareTTL), resp.ExpiresAt, time.Minute)
	require.Len(t, shares.byToken, 1)
}

func TestShareOutfitNotOwned(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	outfits.outfits["o1"] = &models.Outfit{ID: "o1", UserID: "u2", Name: "Shirt"}
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/outfits/o1/share", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, shares.byToken)
}

func activeShare(shares *fakeShareStore, outfits *fakeOutfitStore) {
	outfits.outfits["o1"] = &models.Outfit{
		ID: "o1", UserID: "u1", Name: "Shirt", Category: "top",
		Season: "summer", Color: "blue", UsageCount: 7,
		Image: models.ObjectImage("img.jpg"),
	}
	now := time.Now().UTC()
	shares.byToken["tok"] = &models.SharedOutfit{
		ID: "s1", OutfitID: "o1", ShareToken: "tok",
		CreatedAt: now, ExpiresAt: now.Add(models.ShareTTL),
	}
}

func TestPublicView(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	activeShare(shares, outfits)
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/shared-outfit/tok", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view models.PublicOutfitView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Shirt", view.Name)
	require.Equal(t, "/api/images/img.jpg", view.ImageURL)
	// No owner identity or usage history leaks into the public view.
	require.NotContains(t, rec.Body.String(), "user_id")
	require.NotContains(t, rec.Body.String(), "usage_count")
}

func TestPublicViewUnknownToken(t *testing.T) {
	h := NewHandler(newFakeShareStore(), newFakeOutfitStore(), "http://front")
	r := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/shared-outfit/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicViewExpiredToken(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	activeShare(shares, outfits)
	shares.byToken["tok"].ExpiresAt = time.Now().Add(-time.Hour)
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/shared-outfit/tok", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusGone, rec.Code)
	require.Contains(t, rec.Body.String(), "Share link has expired")
}

func TestRedirect(t *testing.T) {
	h := NewHandler(newFakeShareStore(), newFakeOutfitStore(), "http://front")
	r := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/share/tok", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "http://front/shared-outfit/tok", rec.Header().Get("Location"))
}

func TestAddToWardrobe(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	activeShare(shares, outfits)
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/shared-outfit/tok/add-to-wardrobe", nil), "u2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, outfits.created, 1)

	clone := outfits.created[0]
	require.Equal(t, "u2", clone.UserID)
	require.NotEqual(t, "o1", clone.ID)
	require.Zero(t, clone.UsageCount)
	// The copy points at the original's serving URL instead of its binary.
	require.Equal(t, models.StorageURL, clone.Image.Mode)
	require.Equal(t, "/api/images/img.jpg", clone.Image.External)
}

func TestAddToWardrobeDuplicateName(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	activeShare(shares, outfits)
	outfits.outfits["mine"] = &models.Outfit{ID: "mine", UserID: "u2", Name: "Shirt"}
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/shared-outfit/tok/add-to-wardrobe", nil), "u2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddToWardrobeExpired(t *testing.T) {
	shares := newFakeShareStore()
	outfits := newFakeOutfitStore()
	activeShare(shares, outfits)
	shares.byToken["tok"].ExpiresAt = time.Now().Add(-time.Hour)
	h := NewHandler(shares, outfits, "http://front")
	r := testRouter(h)

	req := asUser(httptest.NewRequest(http.MethodPost, "/shared-outfit/tok/add-to-wardrobe", nil), "u2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusGone, rec.Code)
	require.Empty(t, outfits.created)
}
