package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/inventory"
)

// InventoryHandler documentos de entrada/salida y consultas de stock (protegido).
type InventoryHandler struct {
	workflow *inventory.WorkflowUseCase
	query    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(workflow *inventory.WorkflowUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{workflow: workflow, query: query}
}

// CreateInbound godoc
// @Summary      Registrar entrada de mercancía
// @Description  Crea el documento, sus líneas, recalcula el costo promedio y escribe la auditoría en una sola transacción.
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInboundRequest  true  "supplier_id, received_date, items[product_id, quantity, unit_cost]"
// @Success      201   {object}  dto.DocumentCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inbound [post]
func (h *InventoryHandler) CreateInbound(c *fiber.Ctx) error {
	var in dto.CreateInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.workflow.CreateInbound(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// InboundHistory godoc
// @Summary      Historial de entradas
// @Tags         inbound
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.InboundSummaryResponse
// @Router       /api/inbound [get]
func (h *InventoryHandler) InboundHistory(c *fiber.Ctx) error {
	out, err := h.query.InboundHistory(c.UserContext(), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateOutbound godoc
// @Summary      Registrar salida de mercancía
// @Description  Falla completa con 409 si alguna línea no tiene stock suficiente.
// @Tags         outbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutboundRequest  true  "customer_name, dispatch_date, items[product_id, quantity]"
// @Success      201   {object}  dto.DocumentCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/outbound [post]
func (h *InventoryHandler) CreateOutbound(c *fiber.Ctx) error {
	var in dto.CreateOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.workflow.CreateOutbound(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// OutboundHistory godoc
// @Summary      Historial de salidas
// @Tags         outbound
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.OutboundSummaryResponse
// @Router       /api/outbound [get]
func (h *InventoryHandler) OutboundHistory(c *fiber.Ctx) error {
	out, err := h.query.OutboundHistory(c.UserContext(), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Stock actual
// @Description  Productos activos con cantidad, costo promedio y valor total.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventoryItemResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.query.ListInventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.query.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Bitácora de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/inventory/audit [get]
func (h *InventoryHandler) AuditTrail(c *fiber.Ctx) error {
	out, err := h.query.AuditTrail(c.UserContext(), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// pageFrom lee limit/offset de la query con los valores por defecto de dto.PageRequest.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
