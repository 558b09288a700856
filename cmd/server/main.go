package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/config"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/controller"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/db"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/router"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/scheduler"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/storage"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/validation"
	ws "github.com/lfsdirectory/lfsdirectory-backend/internal/websocket"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/geocode"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/recaptcha"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting LFSDirectory Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	validation.Register()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs rate limiting, the geocode cache and token revocation.
	// Each stays nil when Redis is off so the consumers skip it.
	var (
		rateCounter middleware.Counter
		revocation  middleware.RevocationChecker
		revoker     service.TokenRevoker
		geoCache    geocode.Cache
	)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without rate limiting and caching", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
			store := redis.NewStore(redis.GetClient())
			rateCounter = store
			revocation = store
			revoker = store
			geoCache = store
		}
	}

	var photos storage.PhotoStorage
	if cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		photos = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	} else {
		logger.Warn("S3 credentials not set, photo uploads are disabled")
	}

	defaultLoc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Warn("Invalid DEFAULT_TIMEZONE, using UTC", map[string]interface{}{
			"timezone": cfg.Server.Timezone,
		})
		defaultLoc = time.UTC
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	directoryMetrics := metrics.NewDirectoryMetrics(registry)
	cronMetrics := metrics.NewCronJobMetrics(registry)

	// External clients
	geocoder := geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
		geocode.WithCache(geoCache, cfg.Geocode.CacheTTL),
	)
	mail := mailer.NewClient(cfg.Mail.ResendAPIKey, cfg.Mail.From, mailer.WithBaseURL(cfg.Mail.BaseURL))
	captcha := recaptcha.NewClient(cfg.Recaptcha.SecretKey, recaptcha.WithVerifyURL(cfg.Recaptcha.VerifyURL))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	conn := db.GetDB()
	storeRepo := repository.NewStoreRepository(conn)
	claimRepo := repository.NewClaimRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	verificationRepo := repository.NewVerificationRepository(conn)

	// Initialize services
	dirCfg := service.DirectoryConfig{
		SiteURL:         cfg.Server.SiteURL,
		PlacesAPIKey:    cfg.Google.PlacesAPIKey,
		DefaultLocation: defaultLoc,
	}
	mailCfg := service.MailConfig{
		SiteURL:     cfg.Server.SiteURL,
		APIURL:      cfg.Server.APIURL,
		AdminNotify: cfg.Mail.AdminNotify,
		ContactTo:   cfg.Mail.ContactTo,
	}
	storeService := service.NewStoreService(storeRepo, verificationRepo, dirCfg)
	searchService := service.NewSearchService(storeRepo, geocoder, dirCfg, directoryMetrics)
	submissionService := service.NewSubmissionService(storeRepo, geocoder, mail, mailCfg, hub, directoryMetrics)
	claimService := service.NewClaimService(claimRepo, storeRepo, mail, mailCfg, hub, directoryMetrics)
	verificationService := service.NewVerificationService(verificationRepo, storeRepo, cfg.Security.IPHashKey, hub, directoryMetrics)
	reviewService := service.NewReviewService(reviewRepo, storeRepo, hub, directoryMetrics)
	contactService := service.NewContactService(captcha, mail, mailCfg, directoryMetrics)
	adminService := service.NewAdminService(storeRepo, claimRepo, reviewRepo, photos)
	authService := service.NewAuthService(service.AuthConfig{
		AllowedEmail:    cfg.Admin.AllowedEmail,
		JWTSecret:       cfg.JWT.Secret,
		AccessExpiry:    cfg.JWT.AccessTokenExpiry,
		RefreshExpiry:   cfg.JWT.RefreshTokenExpiry,
		MagicLinkExpiry: cfg.JWT.MagicLinkExpiry,
		SiteURL:         cfg.Server.SiteURL,
	}, mail, revoker)

	// Initialize controllers
	controllers := router.Controllers{
		Store:        controller.NewStoreController(storeService, cfg.Server.SiteURL),
		Search:       controller.NewSearchController(searchService),
		Submission:   controller.NewSubmissionController(submissionService),
		Claim:        controller.NewClaimController(claimService, cfg.Server.SiteURL),
		Verification: controller.NewVerificationController(verificationService),
		Review:       controller.NewReviewController(reviewService),
		Contact:      controller.NewContactController(contactService),
		Admin:        controller.NewAdminController(adminService, submissionService),
		Upload:       controller.NewUploadController(adminService),
		Auth:         controller.NewAuthController(authService),
		Tools:        controller.NewToolsController(),
		Feed:         controller.NewFeedController(hub, cfg.CORS.AllowedOrigins),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.Admin.AllowedEmail, revocation)

	// Nightly rating recompute
	ratingScheduler := scheduler.NewRatingScheduler(cfg.Scheduler.RatingRecomputeSpec, reviewService, cronMetrics)
	if err := ratingScheduler.Start(); err != nil {
		logger.Error("Failed to start rating scheduler", err)
	} else {
		defer ratingScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(controllers, authMiddleware, rateCounter, httpMetrics, registry, cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	stop()
	logger.Info("Server stopped successfully")
}
