package inventory

import (
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementType dirección de un movimiento de inventario.
type MovementType string

const (
	Inbound  MovementType = "INBOUND"
	Outbound MovementType = "OUTBOUND"
)

// Movement cambio de cantidad (y costo, en entradas) sobre el stock de un producto.
type Movement struct {
	ProductID string
	Quantity  int64
	Type      MovementType
	UnitCost  *decimal.Decimal // obligatorio en INBOUND
}

// SignedQuantity cantidad con signo para la auditoría: + entrada, - salida.
func (m Movement) SignedQuantity() int64 {
	if m.Type == Outbound {
		return -m.Quantity
	}
	return m.Quantity
}

// Validate revisa las precondiciones del movimiento.
func (m Movement) Validate() error {
	if m.ProductID == "" {
		return domain.Invalid("product_id", "es requerido")
	}
	if m.Quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor a 0")
	}
	if m.Type == Inbound {
		if m.UnitCost == nil {
			return domain.Invalid("unit_cost", "es requerido en entradas")
		}
		if m.UnitCost.IsNegative() {
			return domain.Invalid("unit_cost", "debe ser mayor o igual a 0")
		}
	}
	return nil
}

// Apply calcula el nuevo estado del registro. Función pura: no toca persistencia.
//
//   - INBOUND:  cantidad += q, costo promedio ponderado con el estado previo.
//   - OUTBOUND: cantidad -= q; si queda negativa → ErrInsufficientStock. El costo no cambia.
//   - Otro tipo → ErrInvalidMovementType.
func Apply(rec entity.InventoryRecord, m Movement) (entity.InventoryRecord, error) {
	switch m.Type {
	case Inbound, Outbound:
	default:
		return rec, domain.ErrInvalidMovementType
	}
	if err := m.Validate(); err != nil {
		return rec, err
	}

	next := rec
	switch m.Type {
	case Inbound:
		next.Quantity = rec.Quantity + m.Quantity
		next.AvgCost = CostCalculator(rec.Quantity, rec.AvgCost, m.Quantity, *m.UnitCost)
	case Outbound:
		next.Quantity = rec.Quantity - m.Quantity
		if next.Quantity < 0 {
			return rec, domain.ErrInsufficientStock
		}
	}
	return next, nil
}
