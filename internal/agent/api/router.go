package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeops/internal/config"
	"lifeops/pkg/ratelimiter"
)

// SetupRouter configures and returns the Gin engine for the agent
// service.
func SetupRouter(h *Handler, cfg config.RateLimiterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(corsMiddleware())

	if cfg.Enabled {
		limiter := ratelimiter.NewTokenBucket(cfg.Rate, cfg.Capacity)
		r.Use(rateLimitMiddleware(limiter))
	}

	r.GET("/", h.Root)
	r.POST("/transcribe", h.Transcribe)

	agentGroup := r.Group("/agent")
	{
		agentGroup.POST("/process", h.ProcessInput)
		agentGroup.GET("/state", h.GetState)
	}

	return r
}

// corsMiddleware allows the frontend to call from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// rateLimitMiddleware rejects requests once the token bucket is drained.
func rateLimitMiddleware(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
