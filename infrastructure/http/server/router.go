package server

import (
	"log/slog"
	"net/http"
	"pair-lab/auth"
	"pair-lab/services"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the command and read surface. Every /api route requires a
// resolved caller identity.
func NewRouter(log *slog.Logger, sessionService services.ISessionService, health *HealthHandler, authSecret []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/health", health.Get)

	handler := NewSessionHandler(log, sessionService)
	api := router.Group("/api", auth.RequireIdentity(authSecret))

	sessions := api.Group("/sessions")
	sessions.POST("", handler.Create)
	sessions.GET("/active", handler.ListActive)
	sessions.GET("/my-recent", handler.ListRecent)
	sessions.GET("/:id", handler.Get)
	sessions.POST("/:id/join", handler.Join)
	sessions.POST("/:id/end", handler.End)

	api.GET("/chat/token", handler.Token)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "route not found"})
	})
	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
