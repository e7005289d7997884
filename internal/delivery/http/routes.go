package http

import (
	"github.com/buysmart/comparison/config"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router.
// A nil gatherer leaves /metrics unregistered.
func SetupRouter(cfg *config.Config, handler *Handler, logger *logging.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	{
		comparison := v1.Group("/comparison")
		{
			comparison.GET("", handler.GetComparison)
			comparison.POST("", handler.AddToComparison)
			comparison.DELETE("", handler.ClearComparison)
			comparison.GET("/candidates", handler.ListCandidates)
			comparison.DELETE("/:analysisId", handler.RemoveFromComparison)
		}

		v1.GET("/notifications", handler.DrainNotifications)
	}

	return router
}
