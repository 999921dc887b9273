package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/in"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/autotaller/recepcion-agenda/internal/core/services"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRange   = "Rango de fechas no válido"
	msgInvalidPayload = "Datos de cita no válidos"
	msgInvalidID      = "Identificador de cita no válido"
	msgInternal       = "Error interno del servidor"
)

type RecepcionSandboxController struct {
	useCase in.RecepcionSandboxUseCase
	logger  out.LoggerPort
}

func NewRecepcionSandboxController(useCase in.RecepcionSandboxUseCase, logger out.LoggerPort) *RecepcionSandboxController {
	return &RecepcionSandboxController{
		useCase: useCase,
		logger:  logger.WithModule("RecepcionSandboxController"),
	}
}

func (c *RecepcionSandboxController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/recepcion")
	{
		api.GET("/ordenes", c.listOrders)
		api.GET("/citas", c.listAppointments)
		api.GET("/citas/resumen", c.listSummaries)
		api.POST("/citas", c.createAppointment)
		api.PUT("/citas/:id", c.updateAppointment)
		api.DELETE("/citas/:id", c.deleteAppointment)
	}
}

// AppointmentRequest тело POST и PUT; дата и время обязательны
type AppointmentRequest struct {
	OrderID int64                    `json:"orden_admision_id" binding:"required,gt=0"`
	Date    *json_types.Date         `json:"fecha_cita" binding:"required"`
	Time    *json_types.Time         `json:"hora_cita" binding:"required"`
	Status  domain.AppointmentStatus `json:"estado"`
	Notes   *string                  `json:"notas"`
}

func (r AppointmentRequest) payload() domain.AppointmentPayload {
	return domain.AppointmentPayload{
		OrderID: r.OrderID,
		Date:    *r.Date,
		Time:    *r.Time,
		Status:  r.Status,
		Notes:   r.Notes,
	}
}

func (c *RecepcionSandboxController) listOrders(ctx *gin.Context) {
	orders, err := c.useCase.ListOrders(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

func (c *RecepcionSandboxController) listAppointments(ctx *gin.Context) {
	r, ok := parseRange(ctx)
	if !ok {
		return
	}

	appointments, err := c.useCase.ListAppointments(ctx.Request.Context(), r)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, appointments)
}

func (c *RecepcionSandboxController) listSummaries(ctx *gin.Context) {
	r, ok := parseRange(ctx)
	if !ok {
		return
	}

	summaries, err := c.useCase.ListDaySummaries(ctx.Request.Context(), r)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

func (c *RecepcionSandboxController) createAppointment(ctx *gin.Context) {
	var req AppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.rejectPayload(ctx, err)
		return
	}

	appointment, err := c.useCase.CreateAppointment(ctx.Request.Context(), req.payload())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, appointment)
}

func (c *RecepcionSandboxController) updateAppointment(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.rejectPayload(ctx, err)
		return
	}

	appointment, err := c.useCase.UpdateAppointment(ctx.Request.Context(), id, req.payload())
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, appointment)
}

func (c *RecepcionSandboxController) deleteAppointment(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.useCase.DeleteAppointment(ctx.Request.Context(), id); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseRange(ctx *gin.Context) (domain.DateRange, bool) {
	from, errFrom := json_types.ParseDate(ctx.Query("from"))
	to, errTo := json_types.ParseDate(ctx.Query("to"))
	if errFrom != nil || errTo != nil || to.Before(from) {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": msgInvalidRange})
		return domain.DateRange{}, false
	}
	return domain.DateRange{From: from, To: to}, true
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": msgInvalidID})
		return 0, false
	}
	return id, true
}

func (c *RecepcionSandboxController) rejectPayload(ctx *gin.Context, err error) {
	c.logger.Warn("sandbox.payload.rejected", out.LogFields{
		"requestId": ctx.GetString(requestIDKey),
		"error":     err.Error(),
	})
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": msgInvalidPayload})
}

// fail переводит ошибку сервиса в ответ с detail
func (c *RecepcionSandboxController) fail(ctx *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": validationErr.Message})
	case errors.Is(err, domain.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"detail": services.MsgSandboxOrderNotFound})
	case errors.Is(err, domain.ErrAppointmentNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"detail": services.MsgSandboxAppointmentNotFound})
	default:
		c.logger.Error("sandbox.request.failed", out.LogFields{
			"requestId": ctx.GetString(requestIDKey),
			"error":     err.Error(),
		})
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
	}
}
