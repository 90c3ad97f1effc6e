package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/wms-api/internal/application/analytics"
)

// AnalyticsHandler valorización del inventario y reportes de auditoría (admin, manager).
type AnalyticsHandler struct {
	valuation *appanalytics.ValuationUseCase
	audit     *appanalytics.AuditUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(valuation *appanalytics.ValuationUseCase, audit *appanalytics.AuditUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{valuation: valuation, audit: audit}
}

// respond ejecuta un reporte de solo lectura y lo serializa.
func respond[T any](c *fiber.Ctx, load func(context.Context) (T, error)) error {
	out, err := load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValuationSummary godoc
// @Summary      Valor total del inventario
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationSummaryDTO
// @Router       /api/inventory/valuation/summary [get]
func (h *AnalyticsHandler) ValuationSummary(c *fiber.Ctx) error {
	return respond(c, h.valuation.Summary)
}

// ValuationByCategory godoc
// @Summary      Valor del inventario por categoría
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryValuationDTO
// @Router       /api/inventory/valuation/categories [get]
func (h *AnalyticsHandler) ValuationByCategory(c *fiber.Ctx) error {
	return respond(c, h.valuation.ByCategory)
}

// ValuationByProduct godoc
// @Summary      Valor del inventario por producto
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductValuationDTO
// @Router       /api/inventory/valuation/products [get]
func (h *AnalyticsHandler) ValuationByProduct(c *fiber.Ctx) error {
	return respond(c, h.valuation.ByProduct)
}

// AuditSummary godoc
// @Summary      Conteo de acciones de los últimos 30 días
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditSummaryDTO
// @Router       /api/audit/summary [get]
func (h *AnalyticsHandler) AuditSummary(c *fiber.Ctx) error {
	return respond(c, h.audit.Summary)
}

// TopUsers godoc
// @Summary      Usuarios con más actividad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TopUserDTO
// @Router       /api/audit/top-users [get]
func (h *AnalyticsHandler) TopUsers(c *fiber.Ctx) error {
	return respond(c, h.audit.TopUsers)
}

// TopProducts godoc
// @Summary      Productos con más entradas en la bitácora
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TopProductDTO
// @Router       /api/audit/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	return respond(c, h.audit.TopProducts)
}

// HighMovement godoc
// @Summary      Productos de mayor rotación
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.HighMovementDTO
// @Router       /api/audit/high-movement [get]
func (h *AnalyticsHandler) HighMovement(c *fiber.Ctx) error {
	return respond(c, h.audit.HighMovement)
}
