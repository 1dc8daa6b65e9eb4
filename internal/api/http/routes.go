package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the service and navigation endpoints
func RegisterRoutes(router gin.IRouter, h *Handlers) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.GET("/state", h.GetState)
	api.PUT("/input", h.SetInput)
	api.POST("/navigate", h.Navigate)

	api.POST("/tabs", h.NewTab)
	api.POST("/tabs/:id/activate", h.ActivateTab)
	api.DELETE("/tabs/:id", h.CloseTab)

	api.GET("/history", h.ListHistory)
	api.POST("/history/:id/open", h.OpenHistory)
	api.DELETE("/history", h.ClearHistory)
}
