package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/delivery/http/middleware"
	"github.com/Harsh-BH/fieldtools/internal/repository"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

// RouterDeps groups what NewRouter needs.
type RouterDeps struct {
	Service *usecase.JobService
	Logger  *zap.Logger

	// HealthChecks are pinged by /api/v1/health. Nil entries are ignored.
	HealthChecks map[string]repository.Pinger

	RateLimitPerMin int
	BodyLimit       int64
	StreamInterval  time.Duration
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(deps.Logger))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check (no rate limiting)
		healthHandler := NewHealthHandler(deps.HealthChecks, deps.Logger)
		v1.GET("/health", healthHandler.Health)

		signalHandler := NewSignalHandler()
		v1.GET("/signals", signalHandler.List)

		statsHandler := NewStatsHandler(deps.Service, deps.Logger)
		v1.GET("/stats", statsHandler.Get)

		// WebSocket for live stats
		streamHandler := NewStatsStreamHandler(deps.Service, deps.StreamInterval, deps.Logger)
		v1.GET("/stats/stream", streamHandler.Stream)

		// Jobs (with rate limiting)
		jobHandler := NewJobHandler(deps.Service, deps.Logger)
		jobs := v1.Group("/jobs", middleware.RateLimiter(deps.RateLimitPerMin))
		jobs.POST("", middleware.BodySizeLimit(deps.bodyLimit()), jobHandler.Create)
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", jobHandler.GetByID)
	}

	return router
}

func (d RouterDeps) bodyLimit() int64 {
	if d.BodyLimit <= 0 {
		return 64 << 10
	}
	return d.BodyLimit
}
