package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-api/internal/domain"
	domaininv "github.com/jhoicas/wms-api/internal/domain/inventory"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// now marca updated_at del registro en cada movimiento.
var now = func() time.Time { return time.Now().UTC() }

// ApplyMovement es el único punto que modifica un InventoryRecord.
// store debe estar atado a la transacción del llamador: la fila queda bloqueada (SELECT FOR UPDATE)
// hasta su commit o rollback, lo que serializa los movimientos del mismo producto sin bloquear
// a los demás. El llamador es responsable de la auditoría.
func ApplyMovement(ctx context.Context, store repository.InventoryRepository, m domaininv.Movement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	rec, err := store.GetForUpdate(ctx, m.ProductID)
	if err != nil {
		return fmt.Errorf("bloquear inventario %s: %w", m.ProductID, err)
	}
	if rec == nil {
		return domain.ErrRecordNotFound
	}

	next, err := domaininv.Apply(*rec, m)
	if err != nil {
		return err
	}
	next.UpdatedAt = now()
	if err := store.Update(ctx, &next); err != nil {
		return fmt.Errorf("actualizar inventario %s: %w", m.ProductID, err)
	}
	return nil
}
