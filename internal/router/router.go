package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/config"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/controller"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups the HTTP handlers mounted by the router.
type Controllers struct {
	Store        *controller.StoreController
	Search       *controller.SearchController
	Submission   *controller.SubmissionController
	Claim        *controller.ClaimController
	Verification *controller.VerificationController
	Review       *controller.ReviewController
	Contact      *controller.ContactController
	Admin        *controller.AdminController
	Upload       *controller.UploadController
	Auth         *controller.AuthController
	Tools        *controller.ToolsController
	Feed         *controller.FeedController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	rateCounter    middleware.Counter
	httpMetrics    *metrics.HTTPMetrics
	gatherer       prometheus.Gatherer
	config         *config.Config
}

// NewRouter builds the route table. rateCounter may be nil, which disables
// per-IP rate limiting. gatherer may be nil, which hides /metrics.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateCounter middleware.Counter,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		rateCounter:    rateCounter,
		httpMetrics:    httpMetrics,
		gatherer:       gatherer,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.httpMetrics != nil {
		router.Use(middleware.MetricsMiddleware(r.httpMetrics))
	}
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "LFSDirectory API is running",
		})
	})
	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	ctl := r.controllers
	window := r.config.RateLimit.Window
	writes := r.config.RateLimit.WritesPerIP
	limit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(r.rateCounter, scope, writes, window)
	}

	router.GET("/sitemap.xml", ctl.Store.Sitemap)
	router.GET("/store/:id", ctl.Store.RedirectLegacyStore)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/states", ctl.Store.ListStates)
		v1.GET("/states/:state", ctl.Store.GetState)
		v1.GET("/states/:state/cities/:city", ctl.Store.GetCity)
		v1.GET("/stats", ctl.Store.Stats)
		v1.GET("/specialties", ctl.Store.Specialties)
		v1.GET("/search", ctl.Search.Search)

		stores := v1.Group("/stores")
		{
			stores.GET("/recent", ctl.Store.RecentStores)
			stores.GET("/:slug", ctl.Store.GetStore)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", ctl.Review.GetStoreReviews)
			reviews.POST("", limit("review"), ctl.Review.CreateReview)
		}

		v1.POST("/submit-store", limit("submit"), ctl.Submission.Submit)

		claims := v1.Group("/claims")
		{
			claims.POST("", limit("claim"), ctl.Claim.Submit)
			claims.GET("/verify", ctl.Claim.Verify)
		}

		verifications := v1.Group("/verifications")
		{
			verifications.GET("", ctl.Verification.Confirmations)
			verifications.POST("", ctl.Verification.Submit)
		}

		v1.POST("/contact", limit("contact"), ctl.Contact.Send)

		tools := v1.Group("/tools")
		{
			tools.GET("/tank-volume", ctl.Tools.TankVolume)
			tools.GET("/heater", ctl.Tools.Heater)
			tools.GET("/co2", ctl.Tools.CO2)
			tools.GET("/salinity", ctl.Tools.Salinity)
			tools.GET("/stocking", ctl.Tools.Stocking)
			tools.GET("/water-change", ctl.Tools.WaterChange)
		}

		auth := v1.Group("/admin/auth")
		{
			auth.POST("/magic-link",
				middleware.RateLimit(r.rateCounter, "magic_link", r.config.RateLimit.MagicLinkPerIP, window),
				ctl.Auth.RequestMagicLink,
			)
			auth.POST("/exchange", ctl.Auth.Exchange)
			auth.POST("/refresh", ctl.Auth.Refresh)
			auth.POST("/logout", ctl.Auth.Logout)
			auth.GET("/me", r.authMiddleware.RequireAdmin(), ctl.Auth.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.RequireAdmin())
		{
			admin.GET("/dashboard", ctl.Admin.Dashboard)
			admin.GET("/queue", ctl.Admin.ModerationQueue)
			admin.GET("/feed", ctl.Feed.Connect)

			admin.GET("/stores", ctl.Admin.ListStores)
			admin.POST("/stores", ctl.Admin.QuickAdd)
			admin.POST("/stores/bulk-delete", ctl.Admin.BulkDelete)
			admin.POST("/stores/bulk-status", ctl.Admin.BulkStatus)
			admin.GET("/stores/:id", ctl.Admin.GetStore)
			admin.PATCH("/stores/:id", ctl.Admin.UpdateStore)
			admin.DELETE("/stores/:id", ctl.Admin.DeleteStore)
			admin.POST("/stores/:id/moderate", ctl.Admin.ModerateStore)
			admin.POST("/stores/:id/photos/presign", ctl.Upload.PresignPhoto)
			admin.POST("/stores/:id/photos", ctl.Upload.AttachPhoto)

			admin.GET("/claims", ctl.Claim.ListPending)
			admin.POST("/claims/bulk-approve", ctl.Claim.BulkApprove)
			admin.POST("/claims/bulk-reject", ctl.Claim.BulkReject)
			admin.POST("/claims/:id/approve", ctl.Claim.Approve)
			admin.POST("/claims/:id/reject", ctl.Claim.Reject)

			admin.GET("/reviews", ctl.Review.ListPending)
			admin.POST("/reviews/bulk-approve", ctl.Review.BulkApprove)
			admin.POST("/reviews/bulk-reject", ctl.Review.BulkReject)
			admin.POST("/reviews/recompute", ctl.Review.RecomputeRatings)
			admin.POST("/reviews/:id/approve", ctl.Review.Approve)
			admin.POST("/reviews/:id/reject", ctl.Review.Reject)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
