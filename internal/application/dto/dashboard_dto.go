package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardQuery parámetros de GET /api/dashboard/summary (fechas YYYY-MM-DD o RFC3339).
type DashboardQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Stats          DashboardStatsDTO `json:"stats"`
	RecentActivity []ActivityLogDTO  `json:"recent_activity"`
	DailyVolume    []DailyVolumeDTO  `json:"daily_volume"`
}

// DashboardStatsDTO KPIs del día.
type DashboardStatsDTO struct {
	TotalInventoryItems int64 `json:"total_inventory_items"` // unidades en stock
	InboundToday        int64 `json:"inbound_today"`
	OutboundToday       int64 `json:"outbound_today"`
	LowStockAlerts      int64 `json:"low_stock_alerts"`
}

// DailyVolumeDTO unidades por día (un registro por cada día del rango, con ceros).
type DailyVolumeDTO struct {
	Date     string `json:"date"`
	Inbound  int64  `json:"inbound"`
	Outbound int64  `json:"outbound"`
}

// ActivityLogDTO entrada del log de actividad.
type ActivityLogDTO struct {
	ID        string    `json:"log_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

// ValuationSummaryDTO Σ quantity × avg_cost.
type ValuationSummaryDTO struct {
	TotalValue decimal.Decimal `json:"total_value"`
}

// CategoryValuationDTO valorización por categoría.
type CategoryValuationDTO struct {
	Category   string          `json:"category"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ProductValuationDTO valorización por producto.
type ProductValuationDTO struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int64           `json:"quantity"`
	AvgCost    decimal.Decimal `json:"avg_cost"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// AuditSummaryDTO actividad de los últimos 30 días.
type AuditSummaryDTO struct {
	TotalActions    int64 `json:"total_actions"`
	InboundActions  int64 `json:"inbound_actions"`
	OutboundActions int64 `json:"outbound_actions"`
	ActiveUsers     int64 `json:"active_users"`
}

// TopUserDTO usuario por número de acciones.
type TopUserDTO struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	ActionCount int64  `json:"action_count"`
}

// TopProductDTO producto por número de movimientos auditados.
type TopProductDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	EditCount int64  `json:"edit_count"`
}

// HighMovementDTO producto por unidades movidas (entradas + salidas).
type HighMovementDTO struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	TotalMovement int64  `json:"total_movement"`
}
