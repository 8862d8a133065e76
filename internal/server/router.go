package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paralympics-api/internal/handler"
	"paralympics-api/internal/metrics"
	"paralympics-api/internal/middleware"
)

// RouterConfig holds the optional router settings
type RouterConfig struct {
	// CORSAllowOrigins enables CORS for the listed origins when non-empty
	CORSAllowOrigins []string
}

// NewRouter binds every route to its handler
func NewRouter(regions handler.RegionStore, events handler.EventStore, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Recovery sits innermost so panicking requests are still logged and counted
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		metrics.Middleware(),
		middleware.Recovery(logger),
	)

	if len(cfg.CORSAllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSAllowOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
			MaxAge:        86400, // 24 hours
		}))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	regionHandler := handler.NewRegionHandler(regions, logger)
	eventHandler := handler.NewEventHandler(events, logger)

	router.GET("/", handler.Hello)

	router.GET("/regions", regionHandler.GetRegions)
	router.GET("/regions/:code", regionHandler.GetRegion)
	router.POST("/regions", regionHandler.AddRegion)

	router.GET("/events", eventHandler.GetEvents)
	router.GET("/events/:event_id", eventHandler.GetEvent)
	router.POST("/events", eventHandler.AddEvent)

	return router
}
