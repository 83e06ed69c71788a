package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartwardrobe/backend/internal/auth"
	"github.com/smartwardrobe/backend/internal/config"
	"github.com/smartwardrobe/backend/internal/groups"
	"github.com/smartwardrobe/backend/internal/httpx"
	"github.com/smartwardrobe/backend/internal/images"
	"github.com/smartwardrobe/backend/internal/middleware"
	"github.com/smartwardrobe/backend/internal/profile"
	"github.com/smartwardrobe/backend/internal/sharing"
	"github.com/smartwardrobe/backend/internal/store"
	"github.com/smartwardrobe/backend/internal/suggest"
	"github.com/smartwardrobe/backend/internal/wardrobe"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	users := store.NewUserStore(db)
	outfits := store.NewOutfitStore(db)
	shares := store.NewShareStore(db)
	groupStore := store.NewGroupStore(db)
	groupShares := store.NewGroupShareStore(db)
	ratings := store.NewRatingStore(db)

	// ── MinIO (optional: local fallback covers outages) ──────
	var outfitObjects images.ObjectStore
	var profileObjects profile.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioClient, err := store.NewObjectClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Warn("minio unavailable, images will be stored locally", zap.Error(err))
		} else {
			if s, err := store.NewObjectStore(ctx, minioClient, cfg.OutfitBucket); err != nil {
				logger.Warn("outfit bucket unavailable", zap.Error(err))
			} else {
				outfitObjects = s
			}
			if s, err := store.NewObjectStore(ctx, minioClient, cfg.ProfileBucket); err != nil {
				logger.Warn("profile bucket unavailable", zap.Error(err))
			} else {
				profileObjects = s
			}
		}
	}

	// ── Local uploads ────────────────────────────────────────
	files, err := store.NewLocalStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("upload dir", zap.Error(err))
	}

	// ── Redis (optional: only backs the weather cache) ───────
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, weather cache disabled", zap.Error(err))
		} else {
			cache = rdb
			defer rdb.Close()
		}
	}

	// ── Services ─────────────────────────────────────────────
	imageSvc := images.NewService(outfitObjects, files, logger)
	aiClient := suggest.NewAIClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.SuggestionModel)
	weatherClient := suggest.NewWeatherClient(cfg.WeatherBaseURL, cfg.GeocodeBaseURL, cache)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, cfg.JWTSecret)
	profileHandler := profile.NewHandler(users, profileObjects)
	imageHandler := images.NewHandler(imageSvc)
	wardrobeHandler := wardrobe.NewHandler(outfits, imageSvc)
	sharingHandler := sharing.NewHandler(shares, outfits, cfg.FrontendURL)
	groupHandler := groups.NewHandler(groupStore, groupShares, ratings, users, outfits)
	suggestHandler := suggest.NewHandler(outfits, aiClient, weatherClient)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, users)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]string{"message": "Smart Wardrobe API is running"})
		})
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]string{
				"status":    "healthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/shared-outfit/{token}", sharingHandler.PublicView)
		r.Get("/share/{token}", sharingHandler.Redirect)
		r.Get("/images/{id}", imageHandler.Serve)
		r.Get("/profile-pic/{id}", profileHandler.ServePic)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Post("/profile/change-password", profileHandler.ChangePassword)
			r.Post("/profile/upload-pic", profileHandler.UploadPic)

			r.Post("/upload-image", imageHandler.Upload)

			r.Route("/outfits", func(r chi.Router) {
				r.Get("/", wardrobeHandler.List)
				r.Post("/", wardrobeHandler.Create)
				r.Get("/stats", wardrobeHandler.Stats)
				r.Put("/{id}", wardrobeHandler.Update)
				r.Delete("/{id}", wardrobeHandler.Delete)
				r.Post("/{id}/use", wardrobeHandler.Use)
				r.Post("/{id}/share", sharingHandler.Share)
			})

			r.Post("/shared-outfit/{token}/add-to-wardrobe", sharingHandler.AddToWardrobe)

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", groupHandler.List)
				r.Post("/create", groupHandler.Create)
				r.Post("/join", groupHandler.Join)
				r.Get("/{id}", groupHandler.Detail)
				r.Post("/{id}/share", groupHandler.ShareToGroup)
				r.Post("/{id}/outfits/{outfitID}/rate", groupHandler.Rate)
			})

			r.Post("/suggestions/ai", suggestHandler.AISuggest)
			r.Get("/suggestions/weather", suggestHandler.WeatherSuggest)
		})
	})

	// Locally stored images are served as static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(files.Dir()))))

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
