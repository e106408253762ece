package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/merchantcare/ticket-service/api"
	"github.com/merchantcare/ticket-service/internal/handler"
	"github.com/merchantcare/ticket-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathMetrics = "/metrics"
	pathSwagger = "/swagger"
)

func New(ticketHandler *handler.TicketHandler, adminHandler *handler.AdminHandler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	r.GET(pathHealth, handler.Health)
	r.GET(pathReady, handler.Ready)
	r.GET(pathMetrics, gin.WrapH(promhttp.Handler()))

	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/tickets/messages", ticketHandler.PostMessage)
		v1.GET("/tickets", ticketHandler.List)
		v1.GET("/tickets/:ticketID", ticketHandler.Get)
		v1.GET("/tickets/:ticketID/messages", ticketHandler.Messages)
		v1.PATCH("/tickets/:ticketID/status", ticketHandler.UpdateStatus)
		v1.PATCH("/tickets/:ticketID/priority", ticketHandler.UpdatePriority)
		v1.POST("/tickets/:ticketID/escalate", ticketHandler.Escalate)

		v1.GET("/admin/tickets", adminHandler.ListEscalated)
		v1.POST("/admin/tickets/:ticketID/message", adminHandler.PostMessage)
		v1.PATCH("/admin/tickets/:ticketID/resolve", adminHandler.Resolve)
	}

	return r
}
