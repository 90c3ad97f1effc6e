package inventory

import (
	"context"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// QueryUseCase lecturas de inventario, auditoría e historial de documentos.
type QueryUseCase struct {
	reports  repository.ReportRepository
	audit    repository.AuditRepository
	inbound  repository.InboundRepository
	outbound repository.OutboundRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	reports repository.ReportRepository,
	audit repository.AuditRepository,
	inbound repository.InboundRepository,
	outbound repository.OutboundRepository,
) *QueryUseCase {
	return &QueryUseCase{reports: reports, audit: audit, inbound: inbound, outbound: outbound}
}

// ListInventory stock de productos activos ordenado por nombre.
func (uc *QueryUseCase) ListInventory(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	rows, err := uc.reports.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventoryItemResponse{
			InventoryID: r.InventoryID,
			ProductID:   r.ProductID,
			SKU:         r.SKU,
			Name:        r.Name,
			Category:    r.Category,
			Quantity:    r.Quantity,
			AvgCost:     r.AvgCost,
			TotalValue:  r.TotalValue,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

// LowStock productos activos con cantidad <= umbral, de menor a mayor cantidad.
func (uc *QueryUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	rows, err := uc.reports.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockItemResponse{
			ProductID:         r.ProductID,
			SKU:               r.SKU,
			Name:              r.Name,
			Category:          r.Category,
			Quantity:          r.Quantity,
			LowStockThreshold: r.LowStockThreshold,
		})
	}
	return out, nil
}

// AuditTrail bitácora de movimientos, la más reciente primero.
func (uc *QueryUseCase) AuditTrail(ctx context.Context, page dto.PageRequest) ([]dto.AuditEntryResponse, error) {
	page.DefaultPage()
	rows, err := uc.audit.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AuditEntryResponse{
			ID:             r.ID,
			ProductID:      r.ProductID,
			SKU:            r.SKU,
			Name:           r.Name,
			ChangeType:     r.ChangeType,
			QuantityChange: r.QuantityChange,
			ReferenceID:    r.ReferenceID,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}

// InboundHistory recepciones con totales de líneas y unidades.
func (uc *QueryUseCase) InboundHistory(ctx context.Context, page dto.PageRequest) ([]dto.InboundSummaryResponse, error) {
	page.DefaultPage()
	rows, err := uc.inbound.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InboundSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InboundSummaryResponse{
			ID:            r.ID,
			SupplierName:  r.SupplierName,
			ReferenceNo:   r.ReferenceNo,
			ReceivedDate:  r.ReceivedDate.Format("2006-01-02"),
			TotalItems:    r.TotalItems,
			TotalQuantity: r.TotalQuantity,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// OutboundHistory despachos con totales de líneas y unidades.
func (uc *QueryUseCase) OutboundHistory(ctx context.Context, page dto.PageRequest) ([]dto.OutboundSummaryResponse, error) {
	page.DefaultPage()
	rows, err := uc.outbound.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OutboundSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OutboundSummaryResponse{
			ID:            r.ID,
			CustomerName:  r.CustomerName,
			SOReference:   r.SOReference,
			DispatchDate:  r.DispatchDate.Format("2006-01-02"),
			TotalItems:    r.TotalItems,
			TotalQuantity: r.TotalQuantity,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}
