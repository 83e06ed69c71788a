package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
// It is built once at startup and passed down by injection; nothing reads
// the environment after Load returns.
type Config struct {
	Port        string
	FrontendURL string

	MongoURI string
	MongoDB  string

	JWTSecret string

	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	OutfitBucket   string
	ProfileBucket  string

	UploadDir string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	SuggestionModel   string
	WeatherBaseURL    string
	GeocodeBaseURL    string
}

func Load() *Config {
	// A missing .env is fine; the real environment wins either way.
	godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "8080"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),

		MongoURI: getenv("MONGO_URI", ""),
		MongoDB:  getenv("MONGO_DB_NAME", "fashion"),

		JWTSecret: getenv("JWT_SECRET", ""),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		OutfitBucket:   getenv("MINIO_OUTFIT_BUCKET", "outfit-images"),
		ProfileBucket:  getenv("MINIO_PROFILE_BUCKET", "profile-images"),

		UploadDir: getenv("UPLOAD_DIR", "uploads"),

		OpenRouterAPIKey:  getenv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getenv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		SuggestionModel:   getenv("SUGGESTION_MODEL", "z-ai/glm-4.5-air:free"),
		WeatherBaseURL:    getenv("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		GeocodeBaseURL:    getenv("GEOCODE_BASE_URL", "https://geocode.maps.co"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
