package routes

import (
	"github.com/gin-gonic/gin"

	"voice-recap/internal/api/middleware"
	"voice-recap/internal/api/v1/handlers"
	"voice-recap/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.Use(middleware.RequestID())

	recapHandler := handlers.NewRecapHandler(container.RecapService)
	recaps := router.Group("/recaps")
	{
		recaps.POST("", recapHandler.Create)
		recaps.GET("/:id", recapHandler.Get)
		recaps.GET("", recapHandler.List)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	RecapService services.RecapService
}
