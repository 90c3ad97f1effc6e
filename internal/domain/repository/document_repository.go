package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// InboundRepository cabeceras y líneas de recepción. Sin métodos de modificación:
// los documentos son inmutables.
type InboundRepository interface {
	CreateHeader(ctx context.Context, doc *entity.InboundDocument) error
	AddItem(ctx context.Context, item *entity.InboundLineItem) error
	List(ctx context.Context, limit, offset int) ([]entity.InboundSummary, error)
}

// OutboundRepository cabeceras y líneas de despacho.
type OutboundRepository interface {
	CreateHeader(ctx context.Context, doc *entity.OutboundDocument) error
	AddItem(ctx context.Context, item *entity.OutboundLineItem) error
	GetByID(ctx context.Context, id string) (*entity.OutboundDocument, error)
	Items(ctx context.Context, outboundID string) ([]entity.OutboundLineDetail, error)
	List(ctx context.Context, limit, offset int) ([]entity.OutboundSummary, error)
}

// AttachmentRepository metadatos de archivos adjuntos a despachos.
type AttachmentRepository interface {
	Create(ctx context.Context, a *entity.OutboundAttachment) error
	ListByOutbound(ctx context.Context, outboundID string) ([]*entity.OutboundAttachment, error)
}
