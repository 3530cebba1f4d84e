package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Rules     *handlers.RuleHandler
	Channels  *handlers.ChannelHandler
	Repricing *handlers.RepricingHandler
	Proposals *handlers.ProposalHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(allowedOrigins))

	api := r.Group("/api")
	{
		api.GET("/products", h.Catalog.ListProducts)
		api.POST("/catalog/sync", h.Catalog.Sync)

		api.GET("/rules", h.Rules.List)
		api.POST("/rules", h.Rules.Create)
		api.GET("/rules/:id", h.Rules.Get)
		api.PUT("/rules/:id", h.Rules.Update)
		api.DELETE("/rules/:id", h.Rules.Delete)

		api.GET("/channels", h.Channels.List)
		api.PUT("/channels/:id", h.Channels.Upsert)

		api.POST("/repricing/run", h.Repricing.Run)
		api.GET("/repricing/summary", h.Repricing.Summary)

		api.GET("/proposals", h.Proposals.List)
		api.GET("/proposals/:id", h.Proposals.Get)
		api.POST("/proposals/:id/approve", h.Proposals.Approve)
		api.POST("/proposals/:id/reject", h.Proposals.Reject)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}

	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
