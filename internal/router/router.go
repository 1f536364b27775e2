package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/handlers"
	"github.com/P3chys/studyshare-api/internal/logger"
	"github.com/P3chys/studyshare-api/internal/middleware"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

// Deps are the collaborators wired into the HTTP API. Optional
// integrations are left nil when their backend is not configured.
type Deps struct {
	Config  *config.Config
	Service *services.DataService
	Logger  *zap.Logger
	Metrics *services.MetricsService

	Files       handlers.FileStore
	Extractor   handlers.TextExtractor
	Searcher    handlers.Searcher
	RateLimiter *middleware.RateLimiter
	Health      []handlers.HealthCheck
}

func Setup(deps Deps) *gin.Engine {
	cfg := deps.Config
	svc := deps.Service
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.Clone(apperrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", handlers.Health(deps.Health...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	{
		// Public routes
		auth := api.Group("/auth")
		if deps.RateLimiter != nil {
			auth.Use(deps.RateLimiter.RateLimitByIP(cfg.AuthRateLimit, cfg.AuthRateWindow))
		}
		{
			auth.POST("/register", handlers.Register(svc, cfg))
			auth.POST("/login", loginChain(deps, handlers.Login(svc, cfg))...)
		}
		api.GET("/catalog", handlers.GetCatalog(svc))

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(cfg.JWTSecret))
		{
			protected.GET("/auth/me", handlers.Me(svc))

			// Resources
			protected.GET("/resources", handlers.ListResources(svc))
			protected.GET("/resources/trending", handlers.TrendingResources(svc))
			protected.GET("/resources/:id", handlers.GetResource(svc))
			protected.POST("/resources", handlers.CreateResource(svc, deps.Files, deps.Extractor, log))
			protected.GET("/files/*key", handlers.DownloadFile(deps.Files))

			// Search
			protected.GET("/search", handlers.Search(deps.Searcher))

			// Requests
			protected.GET("/requests", handlers.ListRequests(svc))
			protected.POST("/requests", handlers.CreateRequest(svc))
			protected.PUT("/requests/:id", handlers.UpdateRequest(svc))

			// Activities
			protected.GET("/activities/recent", handlers.GetRecentActivities(svc))
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AdminRequired())
		{
			admin.GET("/overview", handlers.Overview(svc))

			admin.DELETE("/resources/:id", handlers.DeleteResource(svc))

			admin.DELETE("/requests/:id", handlers.DeleteRequest(svc))
			admin.PUT("/requests/:id/fulfill", handlers.FulfillRequest(svc))

			admin.GET("/users", handlers.ListUsers(svc))
			admin.DELETE("/users/:id", handlers.DeleteUser(svc))

			admin.GET("/external", handlers.SearchExternal(svc))
			admin.POST("/external/:id/import", handlers.ImportExternal(svc))
		}
	}

	return r
}

// loginChain adds the per-account limiter in front of login when Redis is
// available.
func loginChain(deps Deps, login gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return []gin.HandlerFunc{login}
	}
	return []gin.HandlerFunc{
		deps.RateLimiter.RateLimitByEmail(deps.Config.AuthRateLimit, deps.Config.AuthRateWindow, "email"),
		login,
	}
}
