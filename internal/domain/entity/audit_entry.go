package entity

import "time"

// Tipos de cambio registrados en la auditoría.
const (
	ChangeInbound  = "INBOUND"
	ChangeOutbound = "OUTBOUND"
)

// AuditEntry registro inmutable de un movimiento aplicado.
// QuantityChange es positivo para entradas y negativo para salidas;
// ReferenceID apunta a la cabecera del documento que lo originó.
type AuditEntry struct {
	ID             string
	ProductID      string
	ChangeType     string
	QuantityChange int64
	ReferenceID    string
	CreatedAt      time.Time
}

// AuditEntryView auditoría con SKU y nombre del producto para listados.
type AuditEntryView struct {
	AuditEntry
	SKU  string
	Name string
}
