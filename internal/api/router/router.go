package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/delayed-notifier-client/internal/api/handlers/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/middlewares"
)

// New builds the local API engine.
func New(handler *notification.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api/notifications")
	{
		api.GET("/", handler.List)
		api.POST("/", handler.Create)
		api.POST("/refresh", handler.Refresh)
		api.DELETE("/:id", handler.Cancel)
	}

	return e
}
