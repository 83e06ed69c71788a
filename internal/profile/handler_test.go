package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UsernameInUse(_ context.Context, username, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailInUse(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id string, username, email, phone *string) error {
	u := f.users[id]
	if username != nil {
		u.Username = *username
	}
	if email != nil {
		u.Email = *email
	}
	if phone != nil {
		u.Phone = *phone
	}
	return nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, id, passwordHash string) error {
	f.users[id].PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) SetProfilePic(_ context.Context, id, picID, picURL string) error {
	f.users[id].ProfilePicID = picID
	f.users[id].ProfilePicURL = picURL
	return nil
}

func formReq(t *testing.T, method, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func seedUser() *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	return &models.User{
		ID: "u1", Username: "alice", Email: "alice@example.com",
		Gender: "female", PasswordHash: string(hash),
	}
}

func TestGetProfile(t *testing.T) {
	h := NewHandler(newFakeUserStore(seedUser()), nil)

	req := asUser(httptest.NewRequest(http.MethodGet, "/profile", nil), "u1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Username)
	require.Equal(t, "alice@example.com", resp.Email)
	// The password hash never appears on the wire.
	require.NotContains(t, rec.Body.String(), "hunter22")
	require.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateProfilePartial(t *testing.T) {
	users := newFakeUserStore(seedUser())
	h := NewHandler(users, nil)

	req := asUser(formReq(t, http.MethodPut, "/profile", map[string]string{"phone": "555-0101"}), "u1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "555-0101", users.users["u1"].Phone)
	require.Equal(t, "alice", users.users["u1"].Username)

	// An explicitly empty phone clears the field.
	req = asUser(formReq(t, http.MethodPut, "/profile", map[string]string{"phone": ""}), "u1")
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, users.users["u1"].Phone)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	users := newFakeUserStore(seedUser(), &models.User{ID: "u2", Username: "bob"})
	h := NewHandler(users, nil)

	req := asUser(formReq(t, http.MethodPut, "/profile", map[string]string{"username": "bob"}), "u1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "alice", users.users["u1"].Username)
}

func TestUpdateProfileKeepOwnUsername(t *testing.T) {
	users := newFakeUserStore(seedUser())
	h := NewHandler(users, nil)

	// Submitting the current username back is not a conflict.
	req := asUser(formReq(t, http.MethodPut, "/profile", map[string]string{"username": "alice"}), "u1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserStore(seedUser())
	h := NewHandler(users, nil)

	payload, _ := json.Marshal(models.PasswordChangeRequest{CurrentPassword: "hunter22", NewPassword: "correcthorse"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/profile/change-password", bytes.NewReader(payload)), "u1")
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.users["u1"].PasswordHash), []byte("correcthorse")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	users := newFakeUserStore(seedUser())
	h := NewHandler(users, nil)

	payload, _ := json.Marshal(models.PasswordChangeRequest{CurrentPassword: "wrong", NewPassword: "correcthorse"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/profile/change-password", bytes.NewReader(payload)), "u1")
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Current password is incorrect")
}

func TestChangePasswordTooShort(t *testing.T) {
	h := NewHandler(newFakeUserStore(seedUser()), nil)

	payload, _ := json.Marshal(models.PasswordChangeRequest{CurrentPassword: "hunter22", NewPassword: "abc"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/profile/change-password", bytes.NewReader(payload)), "u1")
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPicWithoutObjectStore(t *testing.T) {
	h := NewHandler(newFakeUserStore(seedUser()), nil)

	req := asUser(formReq(t, http.MethodPost, "/profile/upload-pic", nil), "u1")
	rec := httptest.NewRecorder()
	h.UploadPic(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
