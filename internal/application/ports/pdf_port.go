package ports

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// DocumentRenderer genera los PDF operativos de bodega.
type DocumentRenderer interface {
	// ProductLabel etiqueta con QR y código de barras Code128 del SKU.
	ProductLabel(ctx context.Context, p *entity.Product) ([]byte, error)
	// DispatchNote nota de despacho con las líneas del documento de salida.
	DispatchNote(ctx context.Context, doc *entity.OutboundDocument, lines []entity.OutboundLineDetail) ([]byte, error)
}
