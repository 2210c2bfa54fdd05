package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/soundsteps/phonics-backend/internal/config"
	"github.com/soundsteps/phonics-backend/internal/handler"
	"github.com/soundsteps/phonics-backend/internal/middleware"
	"github.com/soundsteps/phonics-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session *handler.SessionHandler
	Content *handler.ContentHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve synthesized dictation clips statically with aggressive caching
	// (1 year); a word's clip never changes once rendered.
	audioGroup := router.Group("/audio")
	audioGroup.Use(middleware.CacheControl(31536000))
	{
		audioGroup.Static("/", cfg.AudioDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Session creation is rate-limited per IP; each session spawns a
	// goroutine and holds content in memory until swept.
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionLimiter.Middleware(), handlers.Session.Create)
			sessions.GET("/:id", handlers.Session.Get)
			sessions.GET("/:id/results", handlers.Session.Results)
			sessions.DELETE("/:id", handlers.Session.Delete)
		}

		content := v1.Group("/content")
		{
			content.GET("/sets", handlers.Content.GetSets)
			content.GET("/sets/:letter/sheet", handlers.Content.GetSheet)
			content.GET("/questions", handlers.Content.GetQuestions)
		}

		system := v1.Group("/system")
		{
			system.GET("/metrics", handlers.System.SystemMetricsSSE)
		}
	}

	wsGroup := router.Group("/ws/v1")
	{
		wsGroup.GET("/sessions/:id/stream", handlers.WS.SessionStream)
	}

	return router
}
