package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create inserta el registro de inventario de un producto recién creado.
func (r *InventoryRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (id, product_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.ProductID, rec.Quantity, rec.AvgCost, rec.UpdatedAt,
	)
	return mapErr("insert inventory", err)
}

// GetByProduct lee el registro sin bloquear.
func (r *InventoryRepo) GetByProduct(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, "get inventory", `
		SELECT id, product_id, quantity, avg_cost, updated_at
		FROM inventory WHERE product_id = $1`, productID)
}

// GetForUpdate obtiene el registro y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
// Con lock_timeout vencido devuelve ErrConflict.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, "get inventory for update", `
		SELECT id, product_id, quantity, avg_cost, updated_at
		FROM inventory WHERE product_id = $1
		FOR UPDATE`, productID)
}

func (r *InventoryRepo) get(ctx context.Context, op, query, productID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&rec.ID, &rec.ProductID, &rec.Quantity, &rec.AvgCost, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidTextRepr {
			return nil, nil
		}
		return nil, mapErr(op, err)
	}
	return &rec, nil
}

// Update escribe cantidad y costo promedio. Exactamente una sentencia por movimiento.
func (r *InventoryRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory SET quantity = $2, avg_cost = $3, updated_at = $4
		WHERE product_id = $1`,
		rec.ProductID, rec.Quantity, rec.AvgCost, rec.UpdatedAt,
	)
	if err != nil {
		return mapErr("update inventory", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update inventory: %w", domain.ErrRecordNotFound)
	}
	return nil
}
