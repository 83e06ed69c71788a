package suggest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/models"
)

// wardrobeCap bounds how many outfits the weather prompt sees.
const wardrobeCap = 50

type OutfitStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Outfit, error)
}

// Completer is the chat model behind both endpoints.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, system, user string) (string, error)
}

// WeatherProvider resolves current conditions for coordinates.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (Weather, error)
}

type Handler struct {
	outfits OutfitStore
	ai      Completer
	weather WeatherProvider
}

func NewHandler(outfits OutfitStore, ai Completer, weather WeatherProvider) *Handler {
	return &Handler{outfits: outfits, ai: ai, weather: weather}
}

// AISuggest handles POST /api/suggestions/ai: styling suggestions for the
// caller's ten least-worn outfits. Every failure mode degrades to heuristic
// suggestions so the response is never empty while the wardrobe isn't.
func (h *Handler) AISuggest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	outfits, err := h.outfits.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if len(outfits) == 0 {
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: []models.Suggestion{},
			Reasoning:   "No outfits found in your wardrobe.",
		})
		return
	}

	leastUsed := LeastWornOutfits(outfits, 10)

	if !h.ai.Configured() {
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: LeastWornFallback(leastUsed),
			Reasoning:   "AI service is not configured. Showing basic suggestions for your least-worn items.",
		})
		return
	}

	raw, err := h.ai.Complete(r.Context(), stylistSystemPrompt, leastWornPrompt(leastUsed))
	if err != nil {
		reasoning := "AI service is currently unavailable. Showing basic suggestions for your least-worn items."
		if errors.Is(err, ErrRateLimited) {
			reasoning = "You've reached the free daily limit for AI suggestions. Please try again tomorrow. Showing basic suggestions for your least-worn items."
		}
		zap.L().Warn("suggestion model call failed", zap.Error(err))
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: LeastWornFallback(leastUsed),
			Reasoning:   reasoning,
		})
		return
	}

	suggestions, err := ParseSuggestions(raw)
	if err != nil {
		zap.L().Warn("suggestion reply unparseable", zap.Error(err))
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: LeastWornFallback(leastUsed),
			Reasoning:   "AI service returned an invalid response. Showing basic suggestions for your least-worn items.",
		})
		return
	}
	if len(suggestions) > 4 {
		suggestions = suggestions[:4]
	}

	httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
		Suggestions: suggestions,
		Reasoning:   "AI-powered styling suggestions based on your least-worn outfits.",
	})
}

// WeatherSuggest handles GET /api/suggestions/weather?lat=&lon=: ranks the
// wardrobe against current conditions. Missing coordinates or a weather
// outage fall back to default conditions; model failures fall back to
// season filtering.
func (h *Handler) WeatherSuggest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	outfits, err := h.outfits.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if len(outfits) == 0 {
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: []models.Suggestion{},
			Reasoning:   "No outfits found in your wardrobe.",
		})
		return
	}
	if len(outfits) > wardrobeCap {
		outfits = outfits[:wardrobeCap]
	}

	weather := DefaultWeather()
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr == nil && lonErr == nil {
		if current, err := h.weather.Current(r.Context(), lat, lon); err == nil {
			weather = current
		} else {
			zap.L().Warn("weather lookup failed, using defaults", zap.Error(err))
		}
	}

	conditions := "Weather in " + weather.Location + ": " + formatTemp(weather.Temperature) + "°C, " + weather.Description

	if !h.ai.Configured() {
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: WeatherFallback(outfits, weather),
			Reasoning:   conditions + ". AI service is not configured.",
		})
		return
	}

	raw, err := h.ai.Complete(r.Context(), stylistSystemPrompt, weatherPrompt(outfits, weather))
	if err != nil {
		reasoning := conditions + ". AI service is currently unavailable."
		if errors.Is(err, ErrRateLimited) {
			reasoning = "You've reached the free daily limit for AI suggestions. Please try again tomorrow or add credits to your account."
		}
		zap.L().Warn("weather suggestion model call failed", zap.Error(err))
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: WeatherFallback(outfits, weather),
			Reasoning:   reasoning,
		})
		return
	}

	suggestions, err := ParseSuggestions(raw)
	if err != nil {
		zap.L().Warn("weather suggestion reply unparseable", zap.Error(err))
		httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
			Suggestions: WeatherFallback(outfits, weather),
			Reasoning:   conditions + ". AI service returned an invalid response.",
		})
		return
	}

	reason := "Perfect for " + formatTemp(weather.Temperature) + "°C and " + weather.Description
	for i := range suggestions {
		suggestions[i].Reason = reason
	}

	httpx.JSON(w, http.StatusOK, models.SuggestionResponse{
		Suggestions: suggestions,
		Reasoning:   conditions,
	})
}
