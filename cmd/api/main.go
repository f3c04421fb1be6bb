package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "registration-backend/docs"
	"registration-backend/internal/common/config"
	"registration-backend/internal/common/logger"
	"registration-backend/internal/common/middleware"
	userhttp "registration-backend/internal/features/user/delivery/http"
	"registration-backend/internal/features/user/repository/sqldb"
	"registration-backend/internal/features/user/service"
	"registration-backend/internal/notifications"
	"registration-backend/internal/platform/db"
	"registration-backend/internal/platform/uploads"
	"registration-backend/web"
)

// @title           User Registration API
// @version         1.0
// @description     REST backend for the user registration system: CRUD over users, profile picture uploads, welcome email on registration.

// @host      localhost:3001
// @BasePath  /api

// @tag.name users
// @tag.description User registration, listing, update and deletion

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init("registration-backend", cfg.Debug)

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	uploadStore, err := uploads.New(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	var notifier notifications.Notifier
	if cfg.Email.SendGridAPIKey != "" {
		notifier = notifications.NewSendGrid(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
		logger.Info().Str("from", cfg.Email.FromAddress).Msg("Email notifications enabled")
	} else {
		logger.Warn().Msg("SENDGRID_API_KEY not set, welcome emails disabled")
	}

	userRepo := sqldb.New(pool, cfg.Database.Driver)
	userSvc := service.NewUserService(userRepo, uploadStore, notifier, cfg.Email.SendTimeout)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	userhttp.NewUserHandler(userSvc).RegisterRoutes(api)

	// Uploaded pictures are directly browsable under the same prefix the
	// store bakes into persisted rows, wherever the directory lives on
	// disk.
	router.Static("/"+uploads.URLPrefix, cfg.Uploads.Dir)

	// Embedded registration UI.
	staticAssets, err := fs.Sub(web.Assets, "static")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded assets")
	}
	router.StaticFS("/app", http.FS(staticAssets))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/app/")
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "registration-backend",
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
