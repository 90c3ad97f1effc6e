package entity

import "time"

// Acciones registradas en el log de actividad.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionArchive = "ARCHIVE"
	ActionImport  = "IMPORT"
	ActionUpload  = "UPLOAD"
)

// Entidades registradas en el log de actividad.
const (
	EntityProduct  = "product"
	EntitySupplier = "supplier"
	EntityInbound  = "inbound"
	EntityOutbound = "outbound"
	EntityCatalog  = "catalog"
)

// ActivityLog registro de quién hizo qué. Es observabilidad: se escribe después del commit
// y su fallo no revierte la operación de negocio.
type ActivityLog struct {
	ID        string
	UserID    string
	Action    string
	Entity    string
	EntityID  string
	CreatedAt time.Time
	// Datos del usuario, solo en lecturas.
	UserEmail string
	UserRole  string
}
