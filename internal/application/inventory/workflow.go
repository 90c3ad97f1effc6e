package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	domaininv "github.com/jhoicas/wms-api/internal/domain/inventory"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

// WorkflowUseCase orquesta entradas y salidas como una sola unidad de trabajo:
// cabecera → por cada línea (insertar línea → ApplyMovement → auditoría) → commit.
// El primer error revierte todo; no existen documentos ni stock parciales.
type WorkflowUseCase struct {
	txRunner    ports.TxRunner
	activity    *activity.Logger
	observer    WorkflowObserver
	invalidator ports.CacheInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

// NewWorkflowUseCase construye el orquestador. observer e invalidator pueden ser nil.
func NewWorkflowUseCase(
	txRunner ports.TxRunner,
	activityLogger *activity.Logger,
	observer WorkflowObserver,
	invalidator ports.CacheInvalidator,
	log zerolog.Logger,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:    txRunner,
		activity:    activityLogger,
		observer:    observer,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// inboundLine / outboundLine: una línea ya validada lista para escribirse.
type inboundLine struct {
	productID string
	quantity  int64
	unitCost  decimal.Decimal
}

type outboundLine struct {
	productID string
	quantity  int64
}

// CreateInbound registra una recepción con sus líneas y suma stock con costo promedio ponderado.
func (uc *WorkflowUseCase) CreateInbound(ctx context.Context, actor entity.Actor, in dto.CreateInboundRequest) (*dto.DocumentCreatedResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	received, err := parseDate("received_date", in.ReceivedDate)
	if err != nil {
		return nil, err
	}
	doc := &entity.InboundDocument{
		ID:           uuid.NewString(),
		SupplierID:   in.SupplierID,
		ReferenceNo:  in.ReferenceNo,
		ReceivedDate: received,
		CreatedBy:    actor.UserID,
		CreatedAt:    uc.now().UTC(),
	}
	lines := make([]inboundLine, 0, len(in.Items))
	var units int64
	for _, it := range in.Items {
		line := inboundLine{productID: it.ProductID, quantity: it.Quantity}
		if it.UnitCost != nil {
			line.unitCost = *it.UnitCost
		}
		lines = append(lines, line)
		units += it.Quantity
	}

	start := uc.now()
	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		return stageInbound(ctx, r, doc, lines)
	})
	uc.observe("inbound", len(lines), units, err, start)
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, entity.EntityInbound, doc.ID)
	return &dto.DocumentCreatedResponse{Message: "entrada registrada", DocumentID: doc.ID}, nil
}

// CreateOutbound registra un despacho. La suficiencia de stock la decide ApplyMovement con la fila
// bloqueada; no hay lectura previa sin bloqueo.
func (uc *WorkflowUseCase) CreateOutbound(ctx context.Context, actor entity.Actor, in dto.CreateOutboundRequest) (*dto.DocumentCreatedResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	dispatched, err := parseDate("dispatch_date", in.DispatchDate)
	if err != nil {
		return nil, err
	}
	doc := &entity.OutboundDocument{
		ID:           uuid.NewString(),
		CustomerName: in.CustomerName,
		SOReference:  in.SOReference,
		DispatchDate: dispatched,
		CreatedBy:    actor.UserID,
		CreatedAt:    uc.now().UTC(),
	}
	lines := make([]outboundLine, 0, len(in.Items))
	var units int64
	for _, it := range in.Items {
		lines = append(lines, outboundLine{productID: it.ProductID, quantity: it.Quantity})
		units += it.Quantity
	}

	start := uc.now()
	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		return stageOutbound(ctx, r, doc, lines)
	})
	uc.observe("outbound", len(lines), units, err, start)
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, entity.EntityOutbound, doc.ID)
	return &dto.DocumentCreatedResponse{Message: "salida registrada", DocumentID: doc.ID}, nil
}

// BulkImportMovements aplica un archivo completo de entradas o salidas en una sola transacción.
// Cada fila genera su propio documento (cabecera + una línea). Primero se valida el esquema de
// todas las filas; luego, en orden de archivo, se aplican. Cualquier error revierte el archivo entero
// y se devuelve como *domain.RowError con el número de fila.
func (uc *WorkflowUseCase) BulkImportMovements(ctx context.Context, actor entity.Actor, kind ImportKind, rows []tabular.Row) (*dto.BulkImportResponse, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}
	switch kind {
	case ImportInbound:
		return uc.bulkInbound(ctx, actor, rows)
	case ImportOutbound:
		return uc.bulkOutbound(ctx, actor, rows)
	}
	return nil, domain.Invalid("kind", "debe ser inbound u outbound")
}

func (uc *WorkflowUseCase) bulkInbound(ctx context.Context, actor entity.Actor, rows []tabular.Row) (*dto.BulkImportResponse, error) {
	parsed := make([]InboundRow, 0, len(rows))
	var units int64
	for _, r := range rows {
		row, err := ParseInboundRow(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, row)
		units += row.Quantity
	}

	created := uc.now().UTC()
	start := uc.now()
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		for _, row := range parsed {
			doc := &entity.InboundDocument{
				ID:           uuid.NewString(),
				SupplierID:   row.SupplierID,
				ReferenceNo:  row.ReferenceNo,
				ReceivedDate: row.ReceivedDate,
				CreatedBy:    actor.UserID,
				CreatedAt:    created,
			}
			line := inboundLine{productID: row.ProductID, quantity: row.Quantity, unitCost: row.UnitCost}
			if err := stageInbound(ctx, repos, doc, []inboundLine{line}); err != nil {
				return &domain.RowError{Row: row.Line, Err: err}
			}
		}
		return nil
	})
	uc.observe("bulk_inbound", len(parsed), units, err, start)
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, entity.EntityInbound, "")
	return &dto.BulkImportResponse{Message: "importación de entradas aplicada", Processed: len(parsed)}, nil
}

func (uc *WorkflowUseCase) bulkOutbound(ctx context.Context, actor entity.Actor, rows []tabular.Row) (*dto.BulkImportResponse, error) {
	parsed := make([]OutboundRow, 0, len(rows))
	var units int64
	for _, r := range rows {
		row, err := ParseOutboundRow(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, row)
		units += row.Quantity
	}

	created := uc.now().UTC()
	start := uc.now()
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		for _, row := range parsed {
			doc := &entity.OutboundDocument{
				ID:           uuid.NewString(),
				CustomerName: row.CustomerName,
				SOReference:  row.SOReference,
				DispatchDate: row.DispatchDate,
				CreatedBy:    actor.UserID,
				CreatedAt:    created,
			}
			line := outboundLine{productID: row.ProductID, quantity: row.Quantity}
			if err := stageOutbound(ctx, repos, doc, []outboundLine{line}); err != nil {
				return &domain.RowError{Row: row.Line, Err: err}
			}
		}
		return nil
	})
	uc.observe("bulk_outbound", len(parsed), units, err, start)
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, actor, entity.EntityOutbound, "")
	return &dto.BulkImportResponse{Message: "importación de salidas aplicada", Processed: len(parsed)}, nil
}

// ── Escritura dentro de la transacción ───────────────────────────────────────

func stageInbound(ctx context.Context, r ports.TxRepos, doc *entity.InboundDocument, lines []inboundLine) error {
	supplier, err := r.Suppliers.GetByID(ctx, doc.SupplierID)
	if err != nil {
		return fmt.Errorf("buscar proveedor: %w", err)
	}
	if supplier == nil {
		return domain.Invalid("supplier_id", "el proveedor no existe")
	}
	if err := r.Inbound.CreateHeader(ctx, doc); err != nil {
		return fmt.Errorf("crear cabecera de entrada: %w", err)
	}
	for i, line := range lines {
		cost := line.unitCost
		mv := domaininv.Movement{
			ProductID: line.productID,
			Quantity:  line.quantity,
			Type:      domaininv.Inbound,
			UnitCost:  &cost,
		}
		if err := mv.Validate(); err != nil {
			return lineErr(i, err)
		}
		item := &entity.InboundLineItem{
			ID:        uuid.NewString(),
			InboundID: doc.ID,
			ProductID: line.productID,
			Quantity:  line.quantity,
			UnitCost:  cost,
		}
		if err := r.Inbound.AddItem(ctx, item); err != nil {
			return lineErr(i, err)
		}
		if err := ApplyMovement(ctx, r.Inventory, mv); err != nil {
			return lineErr(i, err)
		}
		if err := appendAudit(ctx, r, mv, doc.ID, doc.CreatedAt); err != nil {
			return lineErr(i, err)
		}
	}
	return nil
}

func stageOutbound(ctx context.Context, r ports.TxRepos, doc *entity.OutboundDocument, lines []outboundLine) error {
	if err := r.Outbound.CreateHeader(ctx, doc); err != nil {
		return fmt.Errorf("crear cabecera de salida: %w", err)
	}
	for i, line := range lines {
		mv := domaininv.Movement{
			ProductID: line.productID,
			Quantity:  line.quantity,
			Type:      domaininv.Outbound,
		}
		if err := mv.Validate(); err != nil {
			return lineErr(i, err)
		}
		item := &entity.OutboundLineItem{
			ID:         uuid.NewString(),
			OutboundID: doc.ID,
			ProductID:  line.productID,
			Quantity:   line.quantity,
		}
		if err := r.Outbound.AddItem(ctx, item); err != nil {
			return lineErr(i, err)
		}
		if err := ApplyMovement(ctx, r.Inventory, mv); err != nil {
			return lineErr(i, err)
		}
		if err := appendAudit(ctx, r, mv, doc.ID, doc.CreatedAt); err != nil {
			return lineErr(i, err)
		}
	}
	return nil
}

// appendAudit se llama solo después de que el movimiento quedó escrito en la misma transacción.
func appendAudit(ctx context.Context, r ports.TxRepos, mv domaininv.Movement, referenceID string, at time.Time) error {
	return r.Audit.Append(ctx, &entity.AuditEntry{
		ID:             uuid.NewString(),
		ProductID:      mv.ProductID,
		ChangeType:     string(mv.Type),
		QuantityChange: mv.SignedQuantity(),
		ReferenceID:    referenceID,
		CreatedAt:      at,
	})
}

func lineErr(i int, err error) error {
	return fmt.Errorf("línea %d: %w", i+1, err)
}

// ── Post-commit ──────────────────────────────────────────────────────────────

// afterCommit corre fuera de la transacción. Nada de lo que falle aquí revierte el documento.
func (uc *WorkflowUseCase) afterCommit(ctx context.Context, actor entity.Actor, entityName, documentID string) {
	action := entity.ActionCreate
	if documentID == "" {
		action = entity.ActionImport
	}
	uc.activity.Log(ctx, actor, action, entityName, documentID)

	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("entity", entityName).Msg("no se pudo invalidar la caché de reportes")
		}
	}
}

func (uc *WorkflowUseCase) observe(kind string, lines int, units int64, err error, start time.Time) {
	if uc.observer == nil {
		return
	}
	uc.observer.ObserveWorkflow(kind, lines, units, err, uc.now().Sub(start))
}
