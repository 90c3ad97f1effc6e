package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundItemRequest línea de una recepción. UnitCost es obligatorio.
type InboundItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost" validate:"required"`
}

// CreateInboundRequest body de POST /api/inbound.
type CreateInboundRequest struct {
	SupplierID   string               `json:"supplier_id" validate:"required,uuid"`
	ReferenceNo  string               `json:"reference_no" validate:"max=100"`
	ReceivedDate string               `json:"received_date" validate:"required"`
	Items        []InboundItemRequest `json:"items" validate:"min=1,dive"`
}

// OutboundItemRequest línea de un despacho.
type OutboundItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// CreateOutboundRequest body de POST /api/outbound.
type CreateOutboundRequest struct {
	CustomerName string                `json:"customer_name" validate:"required,max=200"`
	SOReference  string                `json:"so_reference" validate:"max=100"`
	DispatchDate string                `json:"dispatch_date" validate:"required"`
	Items        []OutboundItemRequest `json:"items" validate:"min=1,dive"`
}

// DocumentCreatedResponse respuesta al crear una entrada o salida.
type DocumentCreatedResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// BulkImportResponse respuesta de importación masiva; solo existe si el archivo completo se aplicó.
type BulkImportResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

// InboundSummaryResponse fila del historial de entradas.
type InboundSummaryResponse struct {
	ID            string    `json:"inbound_id"`
	SupplierName  string    `json:"supplier_name"`
	ReferenceNo   string    `json:"reference_no"`
	ReceivedDate  string    `json:"received_date"`
	TotalItems    int       `json:"total_items"`
	TotalQuantity int64     `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// OutboundSummaryResponse fila del historial de salidas.
type OutboundSummaryResponse struct {
	ID            string    `json:"outbound_id"`
	CustomerName  string    `json:"customer_name"`
	SOReference   string    `json:"so_reference"`
	DispatchDate  string    `json:"dispatch_date"`
	TotalItems    int       `json:"total_items"`
	TotalQuantity int64     `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// InventoryItemResponse fila de GET /api/inventory.
type InventoryItemResponse struct {
	InventoryID string          `json:"inventory_id"`
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int64           `json:"quantity"`
	AvgCost     decimal.Decimal `json:"avg_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LowStockItemResponse fila de GET /api/inventory/low-stock.
type LowStockItemResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// AuditEntryResponse fila de GET /api/inventory/audit.
type AuditEntryResponse struct {
	ID             string    `json:"audit_id"`
	ProductID      string    `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ChangeType     string    `json:"change_type"`
	QuantityChange int64     `json:"quantity_change"`
	ReferenceID    string    `json:"reference_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttachmentResponse metadatos de un adjunto de despacho.
type AttachmentResponse struct {
	ID         string    `json:"attachment_id"`
	OutboundID string    `json:"outbound_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}
