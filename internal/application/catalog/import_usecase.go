package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

const (
	importLockKey = "lock:catalog-import"
	importLockTTL = 2 * time.Minute
)

// CatalogRow fila validada del archivo de catálogo.
// Columnas: sku, name, category, description, tags (separadas por "|"), low_stock_threshold.
type CatalogRow struct {
	Line              int
	SKU               string `col:"sku" validate:"required,max=100"`
	Name              string `col:"name" validate:"required,max=200"`
	Category          string `col:"category" validate:"max=100"`
	Description       string `col:"description"`
	Tags              []string
	LowStockThreshold int `col:"low_stock_threshold" validate:"gte=0"`
}

// ParseCatalogRow valida el esquema de una fila de catálogo.
func ParseCatalogRow(r tabular.Row) (CatalogRow, error) {
	row := CatalogRow{
		Line:        r.Line,
		SKU:         r.Get("sku"),
		Name:        r.Get("name"),
		Category:    r.Get("category"),
		Description: r.Get("description"),
		Tags:        normalizeTags(strings.Split(r.Get("tags"), "|")),
	}
	if s := r.Get("low_stock_threshold"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return row, &domain.RowError{Row: r.Line, Err: domain.Invalid("low_stock_threshold", "debe ser un entero")}
		}
		row.LowStockThreshold = n
	}
	if err := validation.Struct(row); err != nil {
		return row, &domain.RowError{Row: r.Line, Err: err}
	}
	return row, nil
}

// ImportUseCase importación masiva de catálogo.
type ImportUseCase struct {
	txRunner    ports.TxRunner
	locker      ports.Locker
	activity    *activity.Logger
	invalidator ports.CacheInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

// NewImportUseCase construye el caso de uso. locker nil desactiva la serialización entre procesos.
func NewImportUseCase(
	txRunner ports.TxRunner,
	locker ports.Locker,
	activityLogger *activity.Logger,
	invalidator ports.CacheInvalidator,
	log zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		txRunner:    txRunner,
		locker:      locker,
		activity:    activityLogger,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// BulkImportCatalog hace upsert por SKU de todas las filas en una sola transacción:
//   - SKU inexistente: crea producto e inventario (0, 0).
//   - SKU archivado: lo reactiva y sobrescribe los campos descriptivos; el stock no se toca.
//   - SKU activo: error de duplicado y el archivo completo se revierte.
func (uc *ImportUseCase) BulkImportCatalog(ctx context.Context, actor entity.Actor, rows []tabular.Row) (*dto.CatalogImportResponse, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}
	parsed := make([]CatalogRow, 0, len(rows))
	for _, r := range rows {
		row, err := ParseCatalogRow(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, row)
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, importLockKey, importLockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				uc.log.Warn().Err(err).Msg("no se pudo liberar el candado de importación de catálogo")
			}
		}()
	}

	var created, reactivated int
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		created, reactivated = 0, 0
		for _, row := range parsed {
			wasCreated, err := upsertRow(ctx, r, row, now)
			if err != nil {
				return &domain.RowError{Row: row.Line, Err: err}
			}
			if wasCreated {
				created++
			} else {
				reactivated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.activity.Log(ctx, actor, entity.ActionImport, entity.EntityCatalog, "")
	invalidate(ctx, uc.invalidator, uc.log)
	return &dto.CatalogImportResponse{
		Message:     "catálogo importado",
		Created:     created,
		Reactivated: reactivated,
	}, nil
}

// upsertRow devuelve true si creó el producto y false si reactivó uno archivado.
func upsertRow(ctx context.Context, r ports.TxRepos, row CatalogRow, now time.Time) (bool, error) {
	existing, err := r.Products.GetBySKU(ctx, row.SKU)
	if err != nil {
		return false, fmt.Errorf("buscar sku: %w", err)
	}
	if existing == nil {
		p := &entity.Product{
			ID:                uuid.NewString(),
			SKU:               row.SKU,
			Name:              row.Name,
			Category:          row.Category,
			Description:       row.Description,
			Tags:              row.Tags,
			LowStockThreshold: row.LowStockThreshold,
			Status:            entity.ProductActive,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return true, createWithInventory(ctx, r, p)
	}
	if existing.IsActive() {
		return false, skuExists(row.SKU)
	}

	existing.Name = row.Name
	existing.Category = row.Category
	existing.Description = row.Description
	existing.Tags = row.Tags
	existing.LowStockThreshold = row.LowStockThreshold
	existing.Status = entity.ProductActive
	existing.UpdatedAt = now
	if err := r.Products.Update(ctx, existing); err != nil {
		return false, fmt.Errorf("reactivar producto: %w", err)
	}
	// Un producto antiguo puede no tener registro de inventario.
	rec, err := r.Inventory.GetByProduct(ctx, existing.ID)
	if err != nil {
		return false, fmt.Errorf("buscar inventario: %w", err)
	}
	if rec == nil {
		if err := r.Inventory.Create(ctx, &entity.InventoryRecord{
			ID:        uuid.NewString(),
			ProductID: existing.ID,
			UpdatedAt: now,
		}); err != nil {
			return false, fmt.Errorf("crear inventario: %w", err)
		}
	}
	return false, nil
}
