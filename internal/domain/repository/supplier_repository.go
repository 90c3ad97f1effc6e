package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListActive(ctx context.Context) ([]*entity.Supplier, error)
}
