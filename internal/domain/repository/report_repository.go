package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow fila del listado de inventario de productos activos.
type InventoryRow struct {
	InventoryID string
	ProductID   string
	SKU         string
	Name        string
	Category    string
	Quantity    int64
	AvgCost     decimal.Decimal
	TotalValue  decimal.Decimal
	UpdatedAt   time.Time
}

// LowStockRow producto activo con cantidad <= umbral.
type LowStockRow struct {
	ProductID         string
	SKU               string
	Name              string
	Category          string
	Quantity          int64
	LowStockThreshold int
}

// CategoryValuation valorización agrupada por categoría.
type CategoryValuation struct {
	Category   string
	TotalValue decimal.Decimal
}

// ProductValuation valorización por producto.
type ProductValuation struct {
	ProductID  string
	SKU        string
	Name       string
	Category   string
	Quantity   int64
	AvgCost    decimal.Decimal
	TotalValue decimal.Decimal
}

// DailyVolume unidades entrantes y salientes de un día.
type DailyVolume struct {
	Date     time.Time
	Inbound  int64
	Outbound int64
}

// AuditSummary conteos de actividad de los últimos 30 días.
type AuditSummary struct {
	TotalActions    int64
	InboundActions  int64
	OutboundActions int64
	ActiveUsers     int64
}

// UserActivity usuario con su número de acciones.
type UserActivity struct {
	Email       string
	Role        string
	ActionCount int64
}

// ProductActivity producto con un conteo (entradas de auditoría o unidades movidas).
type ProductActivity struct {
	ProductID string
	SKU       string
	Name      string
	Count     int64
}

// ReportRepository consultas de solo lectura sobre el estado de inventario.
type ReportRepository interface {
	ListInventory(ctx context.Context) ([]InventoryRow, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)

	TotalValuation(ctx context.Context) (decimal.Decimal, error)
	ValuationByCategory(ctx context.Context) ([]CategoryValuation, error)
	ValuationByProduct(ctx context.Context) ([]ProductValuation, error)

	// ── Dashboard ────────────────────────────────────────────────────────────
	TotalUnits(ctx context.Context) (int64, error)
	InboundUnitsOn(ctx context.Context, day time.Time, productID string) (int64, error)
	OutboundUnitsOn(ctx context.Context, day time.Time, productID string) (int64, error)
	LowStockCount(ctx context.Context) (int64, error)
	ActivityBetween(ctx context.Context, start, end time.Time, limit int) ([]ActivityRow, error)
	DailyVolume(ctx context.Context, start, end time.Time, productID string) ([]DailyVolume, error)

	// ── Auditoría ────────────────────────────────────────────────────────────
	AuditSummary(ctx context.Context, since time.Time) (AuditSummary, error)
	TopUsers(ctx context.Context, limit int) ([]UserActivity, error)
	TopProducts(ctx context.Context, limit int) ([]ProductActivity, error)
	HighMovement(ctx context.Context, limit int) ([]ProductActivity, error)
}

// ActivityRow actividad reciente con datos del usuario.
type ActivityRow struct {
	ID        string
	Action    string
	Entity    string
	EntityID  string
	CreatedAt time.Time
	Email     string
	Role      string
}
