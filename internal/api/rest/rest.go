package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-floor-indexer/internal/api/middleware"
	"github.com/feral-file/ff-floor-indexer/internal/ratelimit"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator, limiter ratelimit.Limiter) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1", middleware.Auth(auth), middleware.RateLimit(limiter))
	{
		v1.POST("/jobs", handler.EnqueueJobs)
		v1.GET("/jobs/failed", handler.ListFailedJobs)
		v1.POST("/jobs/failed/:seq/retry", handler.RetryFailedJob)
	}
}
