package http

import (
	"net/http"

	"github.com/autotaller/recepcion-agenda/internal/core/ports/in"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/gin-gonic/gin"
)

// NewSandboxRouter gin с маршрутами песочницы, метриками и healthz
func NewSandboxRouter(useCase in.RecepcionSandboxUseCase, logger out.LoggerPort) *gin.Engine {
	router := gin.New()
	metrics := NewMetrics()

	router.Use(gin.Recovery(), RequestID(), AccessLog(logger), metrics.Middleware())

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	metrics.RegisterRoutes(router)
	NewRecepcionSandboxController(useCase, logger).RegisterRoutes(router)

	return router
}
