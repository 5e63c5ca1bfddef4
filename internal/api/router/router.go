package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/reminder-notifier/internal/api/handlers/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/api/respond"
	"github.com/aliskhannn/reminder-notifier/internal/middlewares"
)

func New(handler *reminder.Handler, allowedOrigins []string) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware(allowedOrigins))
	e.Use(ginext.Logger())
	e.Use(middlewares.Recovery())

	e.GET("/health", func(c *ginext.Context) {
		respond.OK(c.Writer, "ok")
	})

	api := e.Group("/api/reminders")
	{
		api.POST("", handler.Create)
		api.GET("", handler.GetAll)
		api.GET("/pending", handler.GetPending)
		api.GET("/stream", handler.Stream)
		api.GET("/:id/status", handler.GetStatus)
	}

	return e
}
