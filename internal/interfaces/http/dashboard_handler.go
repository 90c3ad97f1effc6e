package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/activity"
	appanalytics "github.com/jhoicas/wms-api/internal/application/analytics"
	"github.com/jhoicas/wms-api/internal/application/dto"
)

// DashboardHandler maneja el resumen operativo y el log de actividad.
type DashboardHandler struct {
	uc       *appanalytics.DashboardUseCase
	activity *activity.QueryUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, activityQuery *activity.QueryUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, activity: activityQuery}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  KPIs del día, actividad reciente y volumen diario de entradas/salidas.
// @Description  Sin fechas se usan los últimos 7 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Param        product_id  query  string  false  "Filtrar volumen por producto (UUID)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ActivityLogs godoc
// @Summary      Actividad reciente
// @Description  Últimas 100 acciones con email y rol del usuario.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActivityLogDTO
// @Router       /api/activity-logs [get]
func (h *DashboardHandler) ActivityLogs(c *fiber.Ctx) error {
	out, err := h.activity.ListRecent(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
