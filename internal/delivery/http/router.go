package http

import (
	"github.com/globalconnect/backend/internal/delivery/http/handler"
	"github.com/globalconnect/backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	userHandler     *handler.UserHandler
	geoHandler      *handler.GeoHandler
	registerHandler *handler.RegisterHandler
	messageHandler  *handler.MessageHandler
	diagHandler     *handler.DiagHandler
	rateLimit       *middleware.RateLimitMiddleware
}

func NewRouter(
	userHandler *handler.UserHandler,
	geoHandler *handler.GeoHandler,
	registerHandler *handler.RegisterHandler,
	messageHandler *handler.MessageHandler,
	diagHandler *handler.DiagHandler,
	rateLimit *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		userHandler:     userHandler,
		geoHandler:      geoHandler,
		registerHandler: registerHandler,
		messageHandler:  messageHandler,
		diagHandler:     diagHandler,
		rateLimit:       rateLimit,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	api := router.Group("/api")
	{
		// Directory: soft rate limit per client address
		api.GET("/users", r.rateLimit.Limit(), r.userHandler.Search)
		api.GET("/interests", r.userHandler.ListInterests)

		api.POST("/register", r.registerHandler.Register)

		// Geo proxy
		geo := api.Group("/geo")
		{
			geo.GET("/search", r.geoHandler.SearchLocations)
			geo.GET("/reverse", r.geoHandler.ReverseGeocode)
		}
		api.GET("/directions", r.geoHandler.GetDirections)

		// Messages
		messages := api.Group("/messages")
		{
			messages.POST("", r.messageHandler.Send)
			messages.GET("", r.messageHandler.Conversation)
			messages.GET("/recent", r.messageHandler.Recent)
			messages.POST("/:id/read", r.messageHandler.MarkRead)
		}

		// Diagnostics, kept under both historical paths
		api.GET("/test-db-connection", r.diagHandler.TestDBConnection)
		api.GET("/db-test", r.diagHandler.TestDBConnection)
	}

	return router
}
