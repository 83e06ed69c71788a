// Package groups implements style groups: creation with invite codes,
// joining, sharing outfits into a group, and member ratings.
package groups

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
	"github.com/smartwardrobe/backend/internal/store"
)

const maxCodeAttempts = 5

type GroupStore interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Group, error)
	ListByMember(ctx context.Context, userID string) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	InviteCodeInUse(ctx context.Context, code string) (bool, error)
}

type ShareStore interface {
	Create(ctx context.Context, s *models.SharedOutfitToGroup) error
	Get(ctx context.Context, groupID, outfitID string) (*models.SharedOutfitToGroup, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.SharedOutfitToGroup, error)
}

type RatingStore interface {
	Upsert(ctx context.Context, groupID, outfitID, userID string, rating int, when time.Time) (bool, error)
	ListFor(ctx context.Context, groupID, outfitID string) ([]models.OutfitRating, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type OutfitStore interface {
	GetByID(ctx context.Context, id string) (*models.Outfit, error)
	GetOwned(ctx context.Context, id, userID string) (*models.Outfit, error)
}

type Handler struct {
	groups   GroupStore
	shares   ShareStore
	ratings  RatingStore
	users    UserStore
	outfits  OutfitStore
	validate *validator.Validate
}

func NewHandler(groups GroupStore, shares ShareStore, ratings RatingStore, users UserStore, outfits OutfitStore) *Handler {
	return &Handler{
		groups:   groups,
		shares:   shares,
		ratings:  ratings,
		users:    users,
		outfits:  outfits,
		validate: validator.New(),
	}
}

// Create handles POST /api/groups/create. The creator becomes the first
// member and
// the invite code is rechecked for uniqueness before use.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.GroupCreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "name is required")
		return
	}

	code, err := h.mintInviteCode(r.Context())
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	group := &models.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		Members:     []string{userID},
		InviteCode:  code,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.groups.Create(r.Context(), group); err != nil {
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("group created", zap.String("group_id", group.ID), zap.String("user_id", userID))
	httpx.JSON(w, http.StatusCreated, h.groupResponse(r.Context(), group, userID))
}

func (h *Handler) mintInviteCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := newInviteCode()
		if err != nil {
			return "", err
		}
		inUse, err := h.groups.InviteCodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", errors.New("groups: could not mint a unique invite code")
}

func (h *Handler) groupResponse(ctx context.Context, g *models.Group, userID string) models.GroupResponse {
	creatorName := ""
	if creator, err := h.users.GetByID(ctx, g.CreatorID); err == nil {
		creatorName = creator.Username
	}
	return models.GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		CreatorID:    g.CreatorID,
		CreatorName:  creatorName,
		MembersCount: len(g.Members),
		InviteCode:   g.InviteCode,
		CreatedAt:    g.CreatedAt,
		IsMember:     g.HasMember(userID),
	}
}

// List handles GET /api/groups: the caller's groups only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	memberOf, err := h.groups.ListByMember(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	resp := make([]models.GroupResponse, 0, len(memberOf))
	for i := range memberOf {
		resp = append(resp, h.groupResponse(r.Context(), &memberOf[i], userID))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Detail handles GET /api/groups/{id}: members, shared outfits, and per
// outfit the ratings aggregate plus the caller's own rating. Members only.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	group, ok := h.loadMemberGroup(w, r, chi.URLParam(r, "id"), userID)
	if !ok {
		return
	}

	members := make([]models.GroupMember, 0, len(group.Members))
	for _, id := range group.Members {
		u, err := h.users.GetByID(r.Context(), id)
		if err != nil {
			continue
		}
		members = append(members, models.GroupMember{
			ID:            u.ID,
			Username:      u.Username,
			ProfilePicURL: u.ProfilePicURL,
		})
	}

	shares, err := h.shares.ListByGroup(r.Context(), group.ID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	outfits := make([]models.GroupOutfit, 0, len(shares))
	for i := range shares {
		share := &shares[i]
		outfit, err := h.outfits.GetByID(r.Context(), share.OutfitID)
		if err != nil {
			// Deleted outfits silently drop out of the group view.
			continue
		}

		sharedBy := models.GroupMember{ID: share.SharedByUserID}
		if u, err := h.users.GetByID(r.Context(), share.SharedByUserID); err == nil {
			sharedBy.Username = u.Username
			sharedBy.ProfilePicURL = u.ProfilePicURL
		}

		avg, count, userRating, err := h.ratingSummary(r.Context(), group.ID, outfit.ID, userID)
		if err != nil {
			httpx.Internal(w, err)
			return
		}

		outfits = append(outfits, models.GroupOutfit{
			ID:            outfit.ID,
			Name:          outfit.Name,
			Category:      outfit.Category,
			Season:        outfit.Season,
			Color:         outfit.Color,
			ImageURL:      outfit.Image.URL(),
			SharedBy:      sharedBy,
			SharedAt:      share.SharedAt,
			RatingsCount:  count,
			AverageRating: avg,
			UserRating:    userRating,
		})
	}

	creatorName := ""
	if creator, err := h.users.GetByID(r.Context(), group.CreatorID); err == nil {
		creatorName = creator.Username
	}

	httpx.JSON(w, http.StatusOK, models.GroupDetail{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		CreatorID:     group.CreatorID,
		CreatorName:   creatorName,
		Members:       members,
		SharedOutfits: outfits,
		InviteCode:    group.InviteCode,
		CreatedAt:     group.CreatedAt,
		IsMember:      true,
	})
}

// Join handles POST /api/groups/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.JoinGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "invite_code is required")
		return
	}

	group, err := h.groups.GetByInviteCode(r.Context(), req.InviteCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Invalid invite code")
			return
		}
		httpx.Internal(w, err)
		return
	}
	if group.HasMember(userID) {
		httpx.Conflict(w, "You are already a member of this group")
		return
	}

	if err := h.groups.AddMember(r.Context(), group.ID, userID); err != nil {
		httpx.Internal(w, err)
		return
	}

	zap.L().Info("group joined", zap.String("group_id", group.ID), zap.String("user_id", userID))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Successfully joined the group"})
}

// ShareToGroup handles POST /api/groups/{id}/share: members share outfits
// they own, once per group.
func (h *Handler) ShareToGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.ShareToGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "outfit_id is required")
		return
	}

	group, ok := h.loadMemberGroup(w, r, chi.URLParam(r, "id"), userID)
	if !ok {
		return
	}

	if _, err := h.outfits.GetOwned(r.Context(), req.OutfitID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found or you don't have permission to share it")
			return
		}
		httpx.Internal(w, err)
		return
	}

	if _, err := h.shares.Get(r.Context(), group.ID, req.OutfitID); err == nil {
		httpx.Conflict(w, "This outfit is already shared to this group")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		httpx.Internal(w, err)
		return
	}

	share := &models.SharedOutfitToGroup{
		ID:             uuid.NewString(),
		GroupID:        group.ID,
		OutfitID:       req.OutfitID,
		SharedByUserID: userID,
		SharedAt:       time.Now().UTC(),
	}
	if err := h.shares.Create(r.Context(), share); err != nil {
		httpx.Internal(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "Outfit shared to group successfully"})
}

// Rate handles POST /api/groups/{id}/outfits/{outfitID}/rate: upserts the
// caller's rating and returns the recomputed mean.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	outfitID := chi.URLParam(r, "outfitID")

	var req models.RatingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, "Rating must be between 1 and 5")
		return
	}

	group, ok := h.loadMemberGroup(w, r, chi.URLParam(r, "id"), userID)
	if !ok {
		return
	}

	if _, err := h.shares.Get(r.Context(), group.ID, outfitID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Outfit not found in this group")
			return
		}
		httpx.Internal(w, err)
		return
	}

	created, err := h.ratings.Upsert(r.Context(), group.ID, outfitID, userID, req.Rating, time.Now().UTC())
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	avg, count, _, err := h.ratingSummary(r.Context(), group.ID, outfitID, userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}

	message := "Rating updated successfully"
	if created {
		message = "Rating submitted successfully"
	}
	httpx.JSON(w, http.StatusOK, models.RatingResponse{
		Message:       message,
		AverageRating: avg,
		RatingsCount:  count,
	})
}

// loadMemberGroup fetches a group and enforces membership, writing the 404
// or 403 itself.
func (h *Handler) loadMemberGroup(w http.ResponseWriter, r *http.Request, groupID, userID string) (*models.Group, bool) {
	group, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.NotFound(w, "Group not found")
			return nil, false
		}
		httpx.Internal(w, err)
		return nil, false
	}
	if !group.HasMember(userID) {
		httpx.Forbidden(w, "You are not a member of this group")
		return nil, false
	}
	return group, true
}

// ratingSummary recomputes the mean (rounded to one decimal) and count from
// the stored ratings, plus the given user's own rating if present.
func (h *Handler) ratingSummary(ctx context.Context, groupID, outfitID, userID string) (float64, int, *int, error) {
	ratings, err := h.ratings.ListFor(ctx, groupID, outfitID)
	if err != nil {
		return 0, 0, nil, err
	}
	if len(ratings) == 0 {
		return 0, 0, nil, nil
	}

	sum := 0
	var userRating *int
	for i := range ratings {
		sum += ratings[i].Rating
		if ratings[i].UserID == userID {
			v := ratings[i].Rating
			userRating = &v
		}
	}
	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return avg, len(ratings), userRating, nil
}
