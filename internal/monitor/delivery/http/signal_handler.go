package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-signal-pipeline/internal/monitor/dto"
	"stock-signal-pipeline/internal/monitor/service"
	"stock-signal-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SignalHandler handles HTTP requests for trading signals.
type SignalHandler struct {
	signalService service.SignalService
	logger        *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signalService service.SignalService, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{signalService: signalService, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentSignals)
	g.PUT("/:id/outcome", h.SetSignalOutcome)
}

// GetRecentSignals godoc
// @Summary Get recent trading signals
// @Description Get fused trading signals, newest first
// @Tags signals
// @Produce  json
// @Param   limit  query   int false   "Maximum rows to return (default 20)"
// @Success 200 {array} entity.TradingSignal
// @Failure 500 {object} dto.ErrorResponse
// @Router /signals [get]
func (h *SignalHandler) GetRecentSignals(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	signals, err := h.signalService.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get recent signals", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get signals"})
	}
	return c.JSON(http.StatusOK, signals)
}

// SetSignalOutcome godoc
// @Summary Record a signal outcome
// @Description Record the evaluated outcome (SUCCESS or FAILURE) for a signal
// @Tags signals
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Signal ID"
// @Param   outcome  body    dto.SetOutcomeRequest   true    "Outcome to record"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /signals/{id}/outcome [put]
func (h *SignalHandler) SetSignalOutcome(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid signal ID"})
	}

	var req dto.SetOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if err := h.signalService.SetOutcome(c.Request().Context(), id, req.Outcome); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOutcome):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Signal not found"})
		default:
			h.logger.Error("Failed to record signal outcome", logger.ErrorField(err), logger.Field("signal_id", id))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record outcome"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
