package routes

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/hottakes/hottakes-api/internal/api/handlers"
	"github.com/hottakes/hottakes-api/internal/api/middleware"
	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/auth"
	"github.com/hottakes/hottakes-api/internal/services"
	"github.com/hottakes/hottakes-api/internal/storage"
	"github.com/hottakes/hottakes-api/internal/utils"
	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/pkg/logger"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Authenticator *auth.Authenticator
	Schemas       *validation.Registry
	AuthService   *services.AuthService
	SauceService  *services.SauceService

	LimiterStore limiter.Store
	RateLimitRPS int

	CORSAllowedOrigins []string
	// BaseURL overrides the request host in image URLs.
	BaseURL string
	// ImageDir is served under /images when images are kept on disk.
	ImageDir string
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	// outside ErrorHandler so error bodies are compressed too
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORSMiddleware(deps.CORSAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		utils.Fail(c, apperr.NotFound("route"))
	})

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Schemas)
	sauceHandler := handlers.NewSauceHandler(deps.SauceService, deps.Schemas, deps.BaseURL)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.ImageDir != "" {
		router.Static(storage.PublicPath, deps.ImageDir)
	}

	// API routes
	api := router.Group("/api")
	if deps.LimiterStore != nil {
		api.Use(middleware.RateLimitMiddleware(deps.LimiterStore, deps.RateLimitRPS))
	}

	// Auth routes (public)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	// Sauce routes
	sauces := api.Group("/sauces", middleware.AuthMiddleware(deps.Authenticator))
	{
		sauces.GET("", sauceHandler.ListSauces)
		sauces.POST("", sauceHandler.CreateSauce)
		sauces.GET("/:id", sauceHandler.GetSauce)
		sauces.PUT("/:id", sauceHandler.UpdateSauce)
		sauces.DELETE("/:id", sauceHandler.DeleteSauce)
		sauces.POST("/:id/like", sauceHandler.VoteSauce)
	}

	logger.Info("Routes initialized successfully")
}
