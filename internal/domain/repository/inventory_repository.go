package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// InventoryRepository acceso al registro de stock por producto.
// GetForUpdate solo tiene sentido dentro de una transacción: bloquea la fila hasta el commit/rollback.
type InventoryRepository interface {
	Create(ctx context.Context, rec *entity.InventoryRecord) error
	GetByProduct(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	// GetForUpdate lee el registro con SELECT ... FOR UPDATE. Devuelve (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	// Update escribe cantidad y costo promedio del registro bloqueado.
	Update(ctx context.Context, rec *entity.InventoryRecord) error
}
