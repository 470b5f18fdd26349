package api

import (
	v1 "github.com/flexprice/subscription-analytics/internal/api/v1"
	"github.com/flexprice/subscription-analytics/internal/config"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/rest/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Metrics *v1.MetricsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.RequestLoggerMiddleware(logger),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.APIKeyAuthMiddleware(cfg, logger))
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	metrics := router.Group("/metrics")
	{
		metrics.POST("/mrr", handlers.Metrics.GetMRR)
		metrics.POST("/arpu", handlers.Metrics.GetARPU)
		metrics.POST("/churn", handlers.Metrics.GetChurnRate)
		metrics.POST("/ltv", handlers.Metrics.GetLTV)
		metrics.POST("/expansion", handlers.Metrics.GetMRRExpansion)
		metrics.POST("/subscribers", handlers.Metrics.GetActiveSubscribers)
		metrics.POST("/summary", handlers.Metrics.GetSummary)
		metrics.DELETE("/cache", handlers.Metrics.InvalidateCache)
	}
}
