package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos activos (coincidencia parcial, sin mayúsculas).
type ProductFilter struct {
	Query    string // nombre o descripción
	SKU      string
	Category string
	Tag      string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetBySKU busca por SKU exacto sin importar el estado.
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update sobrescribe los campos descriptivos y el estado.
	Update(ctx context.Context, product *entity.Product) error
	// Archive marca el producto como archivado. onlyActive limita el cambio a productos activos;
	// devuelve false si ninguna fila cambió.
	Archive(ctx context.Context, id string, onlyActive bool) (bool, error)
	ListActive(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
}
