package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const weatherCacheTTL = 15 * time.Minute

// Weather is the current conditions used for outfit ranking.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
}

// DefaultWeather is what suggestions assume when no coordinates were given
// or the weather service is down.
func DefaultWeather() Weather {
	return Weather{Temperature: 20, Description: "clear sky", Location: "Your Location"}
}

// WeatherClient fetches current conditions from Open-Meteo with reverse
// geocoding for the location label. Lookups are cached in Redis when a
// client is available; cache is nil-safe.
type WeatherClient struct {
	weatherURL string
	geocodeURL string
	http       *http.Client
	cache      *redis.Client
}

func NewWeatherClient(weatherURL, geocodeURL string, cache *redis.Client) *WeatherClient {
	return &WeatherClient{
		weatherURL: weatherURL,
		geocodeURL: geocodeURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// WMO weather interpretation codes.
var weatherDescriptions = map[int]string{
	0: "clear sky", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
	45: "foggy", 48: "foggy", 51: "light drizzle", 53: "drizzle", 55: "heavy drizzle",
	61: "light rain", 63: "rain", 65: "heavy rain", 71: "light snow", 73: "snow", 75: "heavy snow",
	77: "snow grains", 80: "light showers", 81: "showers", 82: "heavy showers",
	85: "light snow showers", 86: "snow showers", 95: "thunderstorm",
	96: "thunderstorm with hail", 99: "heavy thunderstorm",
}

func describeWeatherCode(code int) string {
	if desc, ok := weatherDescriptions[code]; ok {
		return desc
	}
	return "clear"
}

// Current returns the conditions at the given coordinates.
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) (Weather, error) {
	cacheKey := fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var w Weather
			if json.Unmarshal([]byte(cached), &w) == nil {
				return w, nil
			}
		}
	}

	url := fmt.Sprintf("%s/v1/forecast?latitude=%v&longitude=%v&current_weather=true", c.weatherURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Weather{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Weather{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("suggest: weather service returned %d", resp.StatusCode)
	}

	var body struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, err
	}

	w := Weather{
		Temperature: body.CurrentWeather.Temperature,
		Description: describeWeatherCode(body.CurrentWeather.WeatherCode),
		Location:    c.locationName(ctx, lat, lon),
	}

	if c.cache != nil {
		if payload, err := json.Marshal(w); err == nil {
			if err := c.cache.Set(ctx, cacheKey, payload, weatherCacheTTL).Err(); err != nil {
				zap.L().Warn("weather cache write failed", zap.Error(err))
			}
		}
	}
	return w, nil
}

// locationName reverse-geocodes the coordinates; a failed lookup degrades
// to the raw coordinates.
func (c *WeatherClient) locationName(ctx context.Context, lat, lon float64) string {
	fallback := fmt.Sprintf("Lat: %.2f, Lon: %.2f", lat, lon)

	url := fmt.Sprintf("%s/reverse?lat=%v&lon=%v", c.geocodeURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallback
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var body struct {
		Address struct {
			City  string `json:"city"`
			Town  string `json:"town"`
			State string `json:"state"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fallback
	}

	switch {
	case body.Address.City != "":
		return body.Address.City
	case body.Address.Town != "":
		return body.Address.Town
	case body.Address.State != "":
		return body.Address.State
	}
	return "Your Location"
}

// formatTemp renders a temperature without trailing zeros (20, 18.3).
func formatTemp(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
