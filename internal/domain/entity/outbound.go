package entity

import "time"

// OutboundDocument cabecera de un despacho. Inmutable tras crearse; admite adjuntos.
type OutboundDocument struct {
	ID           string
	CustomerName string
	SOReference  string
	DispatchDate time.Time
	CreatedBy    string
	CreatedAt    time.Time
}

// OutboundLineItem línea de despacho. No lleva costo: la salida nunca altera el costo promedio.
type OutboundLineItem struct {
	ID         string
	OutboundID string
	ProductID  string
	Quantity   int64
}

// OutboundSummary fila del historial de salidas.
type OutboundSummary struct {
	ID            string
	CustomerName  string
	SOReference   string
	DispatchDate  time.Time
	TotalItems    int
	TotalQuantity int64
	CreatedAt     time.Time
}

// OutboundLineDetail línea con datos de producto, usada en la nota de despacho.
type OutboundLineDetail struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int64
}
