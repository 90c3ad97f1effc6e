package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para inventario, valorización, dashboard y auditoría.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes (normalmente sobre el pool).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ── Inventario ───────────────────────────────────────────────────────────────

func (r *ReportRepo) ListInventory(ctx context.Context) ([]repository.InventoryRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, p.id, p.sku, p.name, p.category, i.quantity, i.avg_cost,
		       (i.quantity * i.avg_cost)::numeric(18,6), i.updated_at
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active'
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []repository.InventoryRow
	for rows.Next() {
		var v repository.InventoryRow
		if err := rows.Scan(&v.InventoryID, &v.ProductID, &v.SKU, &v.Name, &v.Category,
			&v.Quantity, &v.AvgCost, &v.TotalValue, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// LowStock productos activos con cantidad <= umbral, de menor a mayor cantidad.
func (r *ReportRepo) LowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.category, i.quantity, p.low_stock_threshold
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active' AND i.quantity <= p.low_stock_threshold
		ORDER BY i.quantity ASC, p.name`)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var v repository.LowStockRow
		if err := rows.Scan(&v.ProductID, &v.SKU, &v.Name, &v.Category, &v.Quantity, &v.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ── Valorización ─────────────────────────────────────────────────────────────

func (r *ReportRepo) TotalValuation(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(i.quantity * i.avg_cost), 0)
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active'`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total valuation: %w", err)
	}
	return total, nil
}

func (r *ReportRepo) ValuationByCategory(ctx context.Context) ([]repository.CategoryValuation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.category, COALESCE(SUM(i.quantity * i.avg_cost), 0)
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active'
		GROUP BY p.category
		ORDER BY 2 DESC`)
	if err != nil {
		return nil, fmt.Errorf("valuation by category: %w", err)
	}
	defer rows.Close()
	var list []repository.CategoryValuation
	for rows.Next() {
		var v repository.CategoryValuation
		if err := rows.Scan(&v.Category, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scan category valuation: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *ReportRepo) ValuationByProduct(ctx context.Context) ([]repository.ProductValuation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.category, i.quantity, i.avg_cost, i.quantity * i.avg_cost AS total_value
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active'
		ORDER BY total_value DESC, p.sku`)
	if err != nil {
		return nil, fmt.Errorf("valuation by product: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductValuation
	for rows.Next() {
		var v repository.ProductValuation
		if err := rows.Scan(&v.ProductID, &v.SKU, &v.Name, &v.Category, &v.Quantity, &v.AvgCost, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scan product valuation: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func (r *ReportRepo) TotalUnits(ctx context.Context) (int64, error) {
	return r.count(ctx, "total units", `SELECT COALESCE(SUM(quantity), 0)::bigint FROM inventory`)
}

// InboundUnitsOn unidades recibidas en la fecha de recepción day; productID vacío = todos.
func (r *ReportRepo) InboundUnitsOn(ctx context.Context, day time.Time, productID string) (int64, error) {
	return r.count(ctx, "inbound units", `
		SELECT COALESCE(SUM(ii.quantity), 0)::bigint
		FROM inbound_items ii
		JOIN inbound_documents d ON d.id = ii.inbound_id
		WHERE d.received_date = $1::date
		  AND ($2 = '' OR ii.product_id::text = $2)`, day, productID)
}

// OutboundUnitsOn unidades despachadas en la fecha de despacho day; productID vacío = todos.
func (r *ReportRepo) OutboundUnitsOn(ctx context.Context, day time.Time, productID string) (int64, error) {
	return r.count(ctx, "outbound units", `
		SELECT COALESCE(SUM(oi.quantity), 0)::bigint
		FROM outbound_items oi
		JOIN outbound_documents d ON d.id = oi.outbound_id
		WHERE d.dispatch_date = $1::date
		  AND ($2 = '' OR oi.product_id::text = $2)`, day, productID)
}

func (r *ReportRepo) LowStockCount(ctx context.Context) (int64, error) {
	return r.count(ctx, "low stock count", `
		SELECT COUNT(*)
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.status = 'active' AND i.quantity <= p.low_stock_threshold`)
}

func (r *ReportRepo) ActivityBetween(ctx context.Context, start, end time.Time, limit int) ([]repository.ActivityRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.action, l.entity, l.entity_id, l.created_at,
		       COALESCE(u.email, ''), COALESCE(u.role, '')
		FROM activity_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.created_at BETWEEN $1 AND $2
		ORDER BY l.created_at DESC
		LIMIT $3`, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()
	var list []repository.ActivityRow
	for rows.Next() {
		var v repository.ActivityRow
		if err := rows.Scan(&v.ID, &v.Action, &v.Entity, &v.EntityID, &v.CreatedAt, &v.Email, &v.Role); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// DailyVolume unidades entrantes y salientes por día del rango [start, end], días vacíos en cero.
func (r *ReportRepo) DailyVolume(ctx context.Context, start, end time.Time, productID string) ([]repository.DailyVolume, error) {
	rows, err := r.q.Query(ctx, `
		SELECT d::date,
		       COALESCE(SUM(x.in_qty), 0)::bigint,
		       COALESCE(SUM(x.out_qty), 0)::bigint
		FROM generate_series($1::date, $2::date, interval '1 day') d
		LEFT JOIN (
			SELECT ir.received_date AS day, SUM(ii.quantity) AS in_qty, 0 AS out_qty
			FROM inbound_items ii
			JOIN inbound_documents ir ON ir.id = ii.inbound_id
			WHERE $3 = '' OR ii.product_id::text = $3
			GROUP BY ir.received_date
			UNION ALL
			SELECT o.dispatch_date AS day, 0 AS in_qty, SUM(oi.quantity) AS out_qty
			FROM outbound_items oi
			JOIN outbound_documents o ON o.id = oi.outbound_id
			WHERE $3 = '' OR oi.product_id::text = $3
			GROUP BY o.dispatch_date
		) x ON x.day = d::date
		GROUP BY d
		ORDER BY d`, start, end, productID)
	if err != nil {
		return nil, fmt.Errorf("daily volume: %w", err)
	}
	defer rows.Close()
	var list []repository.DailyVolume
	for rows.Next() {
		var v repository.DailyVolume
		if err := rows.Scan(&v.Date, &v.Inbound, &v.Outbound); err != nil {
			return nil, fmt.Errorf("scan daily volume: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ── Auditoría ────────────────────────────────────────────────────────────────

func (r *ReportRepo) AuditSummary(ctx context.Context, since time.Time) (repository.AuditSummary, error) {
	var s repository.AuditSummary
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE entity = 'inbound'),
		       COUNT(*) FILTER (WHERE entity = 'outbound'),
		       COUNT(DISTINCT user_id)
		FROM activity_logs
		WHERE created_at >= $1`, since,
	).Scan(&s.TotalActions, &s.InboundActions, &s.OutboundActions, &s.ActiveUsers)
	if err != nil {
		return s, fmt.Errorf("audit summary: %w", err)
	}
	return s, nil
}

func (r *ReportRepo) TopUsers(ctx context.Context, limit int) ([]repository.UserActivity, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.email, u.role, COUNT(*) AS action_count
		FROM activity_logs l
		JOIN users u ON u.id = l.user_id
		GROUP BY u.email, u.role
		ORDER BY action_count DESC, u.email
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.UserActivity, error) {
		var v repository.UserActivity
		err := row.Scan(&v.Email, &v.Role, &v.ActionCount)
		return v, err
	})
}

// TopProducts productos con más entradas de auditoría.
func (r *ReportRepo) TopProducts(ctx context.Context, limit int) ([]repository.ProductActivity, error) {
	return r.productActivity(ctx, "top products", `
		SELECT p.id, p.sku, p.name, COUNT(*) AS n
		FROM audit_logs a
		JOIN products p ON p.id = a.product_id
		GROUP BY p.id, p.sku, p.name
		ORDER BY n DESC, p.sku
		LIMIT $1`, limit)
}

// HighMovement productos con mayor Σ|quantity_change|.
func (r *ReportRepo) HighMovement(ctx context.Context, limit int) ([]repository.ProductActivity, error) {
	return r.productActivity(ctx, "high movement", `
		SELECT p.id, p.sku, p.name, SUM(ABS(a.quantity_change))::bigint AS n
		FROM audit_logs a
		JOIN products p ON p.id = a.product_id
		GROUP BY p.id, p.sku, p.name
		ORDER BY n DESC, p.sku
		LIMIT $1`, limit)
}

func (r *ReportRepo) productActivity(ctx context.Context, op, query string, limit int) ([]repository.ProductActivity, error) {
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ProductActivity, error) {
		var v repository.ProductActivity
		err := row.Scan(&v.ProductID, &v.SKU, &v.Name, &v.Count)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (r *ReportRepo) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
