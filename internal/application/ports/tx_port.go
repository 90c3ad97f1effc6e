package ports

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción. Todo lo escrito con ellos se confirma
// o se descarta junto.
type TxRepos struct {
	Products  repository.ProductRepository
	Inventory repository.InventoryRepository
	Suppliers repository.SupplierRepository
	Inbound   repository.InboundRepository
	Outbound  repository.OutboundRepository
	Audit     repository.AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en cualquier
// otro caso (incluido panic o cancelación del contexto).
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
