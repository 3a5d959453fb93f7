package http

import (
	"net/http"
	"strconv"

	"stock-signal-pipeline/internal/monitor/service"
	"stock-signal-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatusHandler handles HTTP requests for system status snapshots.
type StatusHandler struct {
	statusService service.StatusService
	logger        *logger.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusService service.StatusService, logger *logger.Logger) *StatusHandler {
	return &StatusHandler{statusService: statusService, logger: logger}
}

// RegisterRoutes registers the status routes to the Echo group.
func (h *StatusHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentStatus)
	g.GET("/latest", h.GetLatestStatus)
}

// GetLatestStatus godoc
// @Summary Get the latest system status
// @Description Get the most recent supervisor snapshot
// @Tags status
// @Produce  json
// @Success 200 {object} dto.SystemStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /status/latest [get]
func (h *StatusHandler) GetLatestStatus(c echo.Context) error {
	status, err := h.statusService.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get latest status", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get status"})
	}
	if status == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No status recorded yet"})
	}
	return c.JSON(http.StatusOK, status)
}

// GetRecentStatus godoc
// @Summary Get recent system status snapshots
// @Description Get supervisor snapshots, newest first
// @Tags status
// @Produce  json
// @Param   limit  query   int false   "Maximum rows to return (default 20)"
// @Success 200 {array} dto.SystemStatusResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /status [get]
func (h *StatusHandler) GetRecentStatus(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	statuses, err := h.statusService.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get recent status", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get status"})
	}
	return c.JSON(http.StatusOK, statuses)
}
