package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundDocument cabecera de una recepción de mercancía. Inmutable tras crearse.
type InboundDocument struct {
	ID           string
	SupplierID   string
	ReferenceNo  string
	ReceivedDate time.Time
	CreatedBy    string
	CreatedAt    time.Time
}

// InboundLineItem línea de una recepción; UnitCost es obligatorio y alimenta el costo promedio.
type InboundLineItem struct {
	ID        string
	InboundID string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// InboundSummary fila del historial de entradas.
type InboundSummary struct {
	ID            string
	SupplierName  string
	ReferenceNo   string
	ReceivedDate  time.Time
	TotalItems    int
	TotalQuantity int64
	CreatedAt     time.Time
}
