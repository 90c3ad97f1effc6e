package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var (
	_ repository.AuditRepository       = (*AuditRepo)(nil)
	_ repository.ActivityLogRepository = (*ActivityRepo)(nil)
)

// AuditRepo bitácora de movimientos. Solo INSERT y SELECT; un trigger rechaza UPDATE y DELETE.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, product_id, change_type, quantity_change, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ProductID, e.ChangeType, e.QuantityChange, e.ReferenceID, e.CreatedAt,
	)
	return mapErr("insert audit entry", err)
}

// List auditoría más reciente primero, con SKU y nombre del producto.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]entity.AuditEntryView, error) {
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.product_id, a.change_type, a.quantity_change, a.reference_id, a.created_at,
		       p.sku, p.name
		FROM audit_logs a
		JOIN products p ON p.id = a.product_id
		ORDER BY a.created_at DESC, a.id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()
	var list []entity.AuditEntryView
	for rows.Next() {
		var v entity.AuditEntryView
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ChangeType, &v.QuantityChange, &v.ReferenceID, &v.CreatedAt,
			&v.SKU, &v.Name); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ActivityRepo log de actividad de usuarios.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador del log de actividad.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

func (r *ActivityRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, entity, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.Action, l.Entity, l.EntityID, l.CreatedAt,
	)
	return mapErr("insert activity log", err)
}

// ListRecent últimas entradas con email y rol del usuario (vacíos si el usuario ya no existe).
func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.user_id, l.action, l.entity, l.entity_id, l.created_at,
		       COALESCE(u.email, ''), COALESCE(u.role, '')
		FROM activity_logs l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	var list []entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Entity, &l.EntityID, &l.CreatedAt,
			&l.UserEmail, &l.UserRole); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
