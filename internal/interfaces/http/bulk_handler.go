package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/catalog"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

// BulkHandler importaciones masivas CSV/XLSX. Cada archivo es atómico: o entran todas las filas o ninguna.
type BulkHandler struct {
	workflow *inventory.WorkflowUseCase
	catalog  *catalog.ImportUseCase
	maxBytes int64
}

// NewBulkHandler construye el handler. maxBytes limita el tamaño del archivo recibido.
func NewBulkHandler(workflow *inventory.WorkflowUseCase, catalogImport *catalog.ImportUseCase, maxBytes int64) *BulkHandler {
	return &BulkHandler{workflow: workflow, catalog: catalogImport, maxBytes: maxBytes}
}

// Catalog godoc
// @Summary      Importar catálogo
// @Description  Columnas: sku, name, category, description, tags (separadas por |), low_stock_threshold.
// @Tags         bulk
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV o XLSX"
// @Success      201   {object}  dto.CatalogImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Router       /api/bulk/inventory [post]
func (h *BulkHandler) Catalog(c *fiber.Ctx) error {
	rows, err := h.readRows(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.catalog.BulkImportCatalog(c.UserContext(), actor(c), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Inbound godoc
// @Summary      Importar entradas
// @Description  Columnas: supplier_id, product_id, quantity, unit_cost, received_date, reference_no.
// @Tags         bulk
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV o XLSX"
// @Success      201   {object}  dto.BulkImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Router       /api/bulk/inbound [post]
func (h *BulkHandler) Inbound(c *fiber.Ctx) error {
	return h.movements(c, inventory.ImportInbound)
}

// Outbound godoc
// @Summary      Importar salidas
// @Description  Columnas: customer_name, product_id, quantity, dispatch_date, so_reference.
// @Tags         bulk
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV o XLSX"
// @Success      201   {object}  dto.BulkImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Router       /api/bulk/outbound [post]
func (h *BulkHandler) Outbound(c *fiber.Ctx) error {
	return h.movements(c, inventory.ImportOutbound)
}

func (h *BulkHandler) movements(c *fiber.Ctx, kind inventory.ImportKind) error {
	rows, err := h.readRows(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.workflow.BulkImportMovements(c.UserContext(), actor(c), kind, rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// readRows valida el formato por extensión/Content-Type antes de leer el cuerpo.
func (h *BulkHandler) readRows(c *fiber.Ctx) ([]tabular.Row, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, domain.Invalid("file", "es requerido")
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("supera el máximo de %d bytes", h.maxBytes))
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if tabular.Detect(fh.Filename, ct) == tabular.FormatUnknown {
		return nil, domain.ErrUnsupportedFileFormat
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.Parse(fh.Filename, ct, f)
}
