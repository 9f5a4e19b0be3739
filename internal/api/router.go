package api

import (
	"github.com/gin-gonic/gin"
	"github.com/omnichat-ai/omnichat/internal/api/chat"
	"github.com/omnichat-ai/omnichat/internal/api/middleware"
	"github.com/omnichat-ai/omnichat/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(chatService *service.ChatService, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Chat API
	chatHandler := chat.NewHandler(chatService)
	apiGroup := r.Group("/api")
	chatHandler.RegisterRoutes(apiGroup)

	return r
}
