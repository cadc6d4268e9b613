package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hottakes/hottakes-api/internal/api/middleware"
	"github.com/hottakes/hottakes-api/internal/api/routes"
	"github.com/hottakes/hottakes-api/internal/auth"
	"github.com/hottakes/hottakes-api/internal/config"
	"github.com/hottakes/hottakes-api/internal/database"
	"github.com/hottakes/hottakes-api/internal/repository"
	"github.com/hottakes/hottakes-api/internal/services"
	"github.com/hottakes/hottakes-api/internal/storage"
	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.Environment)

	// Initialize database
	dbLogLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		dbLogLevel = gormlogger.Info
	}
	db, err := database.Init(cfg.DBDriver, cfg.DatabaseURL, dbLogLevel)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	store, imageDir, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage: ", err)
	}

	limiterStore, err := middleware.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to initialize rate limiter: ", err)
	}

	schemas, err := validation.NewRegistry(validation.PasswordPolicy{
		MinLength:  cfg.PasswordMinLength,
		MinLower:   cfg.PasswordMinLower,
		MinUpper:   cfg.PasswordMinUpper,
		MinDigits:  cfg.PasswordMinDigits,
		MinSymbols: cfg.PasswordMinSymbols,
	})
	if err != nil {
		logger.Fatal("Failed to build request schemas: ", err)
	}

	authenticator := auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(repository.NewUserRepository(db), authenticator)
	sauceService := services.NewSauceService(
		repository.NewSauceRepository(db),
		store,
		services.WithMaxImageBytes(cfg.MaxImageBytes),
	)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, routes.Dependencies{
		Authenticator:      authenticator,
		Schemas:            schemas,
		AuthService:        authService,
		SauceService:       sauceService,
		LimiterStore:       limiterStore,
		RateLimitRPS:       cfg.RateLimitRPS,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BaseURL:            cfg.BaseURL,
		ImageDir:           imageDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown: ", err)
	}

	// let pending image deletions finish
	sauceService.Wait()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// newBlobStore returns the configured image store and, for the disk driver,
// the directory to serve publicly.
func newBlobStore(cfg *config.Config) (storage.Store, string, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverS3:
		s, err := storage.NewS3Store(cfg.AWSRegion, cfg.AWSS3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		d, err := storage.NewDiskStore(cfg.ImageDir)
		if err != nil {
			return nil, "", err
		}
		return d, d.Dir(), nil
	}
}
