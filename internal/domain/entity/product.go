package entity

import "time"

// Estados de Product.
const (
	ProductActive   = "active"
	ProductArchived = "archived"
)

// Product representa un SKU del catálogo.
// Nunca se elimina físicamente: el borrado es un archivado lógico y un SKU archivado
// puede reactivarse desde la importación masiva de catálogo.
type Product struct {
	ID                string
	SKU               string // único en toda la tabla, activo o archivado
	Name              string
	Category          string
	Description       string
	Tags              []string
	LowStockThreshold int
	Status            string // active, archived
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive indica si el producto está disponible para movimientos.
func (p *Product) IsActive() bool { return p != nil && p.Status == ProductActive }
