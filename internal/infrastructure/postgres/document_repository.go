package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var (
	_ repository.InboundRepository    = (*InboundRepo)(nil)
	_ repository.OutboundRepository   = (*OutboundRepo)(nil)
	_ repository.AttachmentRepository = (*AttachmentRepo)(nil)
)

// ── Entradas ──────────────────────────────────────────────────────────────────

// InboundRepo cabeceras y líneas de recepción. Solo inserta y lee.
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador de entradas.
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

func (r *InboundRepo) CreateHeader(ctx context.Context, doc *entity.InboundDocument) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inbound_documents (id, supplier_id, reference_no, received_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.ID, doc.SupplierID, doc.ReferenceNo, doc.ReceivedDate, doc.CreatedBy, doc.CreatedAt,
	)
	return mapErr("insert inbound document", err)
}

func (r *InboundRepo) AddItem(ctx context.Context, item *entity.InboundLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inbound_items (id, inbound_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.InboundID, item.ProductID, item.Quantity, item.UnitCost,
	)
	return mapErr("insert inbound item", err)
}

// List historial de entradas con totales por documento, más recientes primero.
func (r *InboundRepo) List(ctx context.Context, limit, offset int) ([]entity.InboundSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT d.id, COALESCE(s.name, ''), d.reference_no, d.received_date, d.created_at,
		       COUNT(i.id), COALESCE(SUM(i.quantity), 0)
		FROM inbound_documents d
		LEFT JOIN suppliers s ON s.id = d.supplier_id
		LEFT JOIN inbound_items i ON i.inbound_id = d.id
		GROUP BY d.id, s.name
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inbound: %w", err)
	}
	defer rows.Close()
	var list []entity.InboundSummary
	for rows.Next() {
		var s entity.InboundSummary
		if err := rows.Scan(&s.ID, &s.SupplierName, &s.ReferenceNo, &s.ReceivedDate, &s.CreatedAt,
			&s.TotalItems, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan inbound: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── Salidas ───────────────────────────────────────────────────────────────────

// OutboundRepo cabeceras y líneas de despacho.
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador de salidas.
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

func (r *OutboundRepo) CreateHeader(ctx context.Context, doc *entity.OutboundDocument) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outbound_documents (id, customer_name, so_reference, dispatch_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.ID, doc.CustomerName, doc.SOReference, doc.DispatchDate, doc.CreatedBy, doc.CreatedAt,
	)
	return mapErr("insert outbound document", err)
}

func (r *OutboundRepo) AddItem(ctx context.Context, item *entity.OutboundLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outbound_items (id, outbound_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`,
		item.ID, item.OutboundID, item.ProductID, item.Quantity,
	)
	return mapErr("insert outbound item", err)
}

func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.OutboundDocument, error) {
	var d entity.OutboundDocument
	err := r.q.QueryRow(ctx, `
		SELECT id, customer_name, so_reference, dispatch_date, created_by, created_at
		FROM outbound_documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.CustomerName, &d.SOReference, &d.DispatchDate, &d.CreatedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidTextRepr {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound: %w", err)
	}
	return &d, nil
}

// Items líneas del despacho con SKU y nombre del producto.
func (r *OutboundRepo) Items(ctx context.Context, outboundID string) ([]entity.OutboundLineDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.product_id, p.sku, p.name, i.quantity
		FROM outbound_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.outbound_id = $1
		ORDER BY p.sku`, outboundID)
	if err != nil {
		return nil, fmt.Errorf("list outbound items: %w", err)
	}
	defer rows.Close()
	var list []entity.OutboundLineDetail
	for rows.Next() {
		var l entity.OutboundLineDetail
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan outbound item: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// List historial de salidas con totales por documento, más recientes primero.
func (r *OutboundRepo) List(ctx context.Context, limit, offset int) ([]entity.OutboundSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT d.id, d.customer_name, d.so_reference, d.dispatch_date, d.created_at,
		       COUNT(i.id), COALESCE(SUM(i.quantity), 0)
		FROM outbound_documents d
		LEFT JOIN outbound_items i ON i.outbound_id = d.id
		GROUP BY d.id
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list outbound: %w", err)
	}
	defer rows.Close()
	var list []entity.OutboundSummary
	for rows.Next() {
		var s entity.OutboundSummary
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.SOReference, &s.DispatchDate, &s.CreatedAt,
			&s.TotalItems, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan outbound: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── Adjuntos ──────────────────────────────────────────────────────────────────

// AttachmentRepo metadatos de adjuntos de despacho.
type AttachmentRepo struct {
	q Querier
}

// NewAttachmentRepository construye el adaptador de adjuntos.
func NewAttachmentRepository(q Querier) *AttachmentRepo {
	return &AttachmentRepo{q: q}
}

func (r *AttachmentRepo) Create(ctx context.Context, a *entity.OutboundAttachment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outbound_attachments (id, outbound_id, file_name, file_path, mime_type, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.OutboundID, a.FileName, a.FilePath, a.MimeType, a.Size, a.UploadedAt,
	)
	return mapErr("insert attachment", err)
}

func (r *AttachmentRepo) ListByOutbound(ctx context.Context, outboundID string) ([]*entity.OutboundAttachment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, outbound_id, file_name, file_path, mime_type, size, uploaded_at
		FROM outbound_attachments WHERE outbound_id = $1
		ORDER BY uploaded_at`, outboundID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundAttachment
	for rows.Next() {
		var a entity.OutboundAttachment
		if err := rows.Scan(&a.ID, &a.OutboundID, &a.FileName, &a.FilePath, &a.MimeType, &a.Size, &a.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
