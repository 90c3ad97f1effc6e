package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es el stock de un producto: cantidad disponible y costo promedio ponderado.
// Relación 1:1 con Product; se crea junto al producto con Quantity=0 y AvgCost=0 y
// solo el motor de movimientos la modifica.
type InventoryRecord struct {
	ID        string
	ProductID string
	Quantity  int64
	AvgCost   decimal.Decimal
	UpdatedAt time.Time
}

// TotalValue = Quantity * AvgCost.
func (r InventoryRecord) TotalValue() decimal.Decimal {
	return r.AvgCost.Mul(decimal.NewFromInt(r.Quantity))
}
