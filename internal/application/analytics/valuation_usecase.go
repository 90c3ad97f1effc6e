package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// uncategorized etiqueta para productos sin categoría.
const uncategorized = "Uncategorized"

// ValuationUseCase valorización del inventario a costo promedio ponderado (Σ quantity × avg_cost).
type ValuationUseCase struct {
	reports repository.ReportRepository
	cache   ports.ReadCache
}

// NewValuationUseCase construye el caso de uso. cache puede ser nil.
func NewValuationUseCase(reports repository.ReportRepository, cache ports.ReadCache) *ValuationUseCase {
	return &ValuationUseCase{reports: reports, cache: cache}
}

// Summary valor total del inventario.
func (uc *ValuationUseCase) Summary(ctx context.Context) (*dto.ValuationSummaryDTO, error) {
	return cached(ctx, uc.cache, "valuation:summary", func(ctx context.Context) (*dto.ValuationSummaryDTO, error) {
		total, err := uc.reports.TotalValuation(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.ValuationSummaryDTO{TotalValue: total}, nil
	})
}

// ByCategory valor por categoría; las categorías vacías se agrupan como "Uncategorized".
func (uc *ValuationUseCase) ByCategory(ctx context.Context) ([]dto.CategoryValuationDTO, error) {
	return cached(ctx, uc.cache, "valuation:categories", func(ctx context.Context) ([]dto.CategoryValuationDTO, error) {
		rows, err := uc.reports.ValuationByCategory(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryValuationDTO, 0, len(rows))
		idx := make(map[string]int, len(rows))
		for _, r := range rows {
			cat := r.Category
			if cat == "" {
				cat = uncategorized
			}
			if i, ok := idx[cat]; ok {
				out[i].TotalValue = out[i].TotalValue.Add(r.TotalValue)
				continue
			}
			idx[cat] = len(out)
			out = append(out, dto.CategoryValuationDTO{Category: cat, TotalValue: r.TotalValue})
		}
		return out, nil
	})
}

// ByProduct valor por producto, de mayor a menor.
func (uc *ValuationUseCase) ByProduct(ctx context.Context) ([]dto.ProductValuationDTO, error) {
	return cached(ctx, uc.cache, "valuation:products", func(ctx context.Context) ([]dto.ProductValuationDTO, error) {
		rows, err := uc.reports.ValuationByProduct(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ProductValuationDTO, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.ProductValuationDTO{
				ProductID:  r.ProductID,
				SKU:        r.SKU,
				Name:       r.Name,
				Category:   r.Category,
				Quantity:   r.Quantity,
				AvgCost:    r.AvgCost,
				TotalValue: r.TotalValue,
			})
		}
		return out, nil
	})
}

// ── Tablero de auditoría ─────────────────────────────────────────────────────

const (
	auditWindow   = 30 * 24 * time.Hour
	auditTopLimit = 10
)

// AuditUseCase tablero de auditoría para administradores y gerentes.
type AuditUseCase struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(reports repository.ReportRepository) *AuditUseCase {
	return &AuditUseCase{reports: reports, now: time.Now}
}

// Summary conteos de actividad de los últimos 30 días.
func (uc *AuditUseCase) Summary(ctx context.Context) (*dto.AuditSummaryDTO, error) {
	s, err := uc.reports.AuditSummary(ctx, uc.now().UTC().Add(-auditWindow))
	if err != nil {
		return nil, err
	}
	return &dto.AuditSummaryDTO{
		TotalActions:    s.TotalActions,
		InboundActions:  s.InboundActions,
		OutboundActions: s.OutboundActions,
		ActiveUsers:     s.ActiveUsers,
	}, nil
}

// TopUsers los 10 usuarios con más acciones registradas.
func (uc *AuditUseCase) TopUsers(ctx context.Context) ([]dto.TopUserDTO, error) {
	rows, err := uc.reports.TopUsers(ctx, auditTopLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopUserDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopUserDTO{Email: r.Email, Role: r.Role, ActionCount: r.ActionCount})
	}
	return out, nil
}

// TopProducts los 10 productos con más entradas de auditoría.
func (uc *AuditUseCase) TopProducts(ctx context.Context) ([]dto.TopProductDTO, error) {
	rows, err := uc.reports.TopProducts(ctx, auditTopLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{ProductID: r.ProductID, SKU: r.SKU, Name: r.Name, EditCount: r.Count})
	}
	return out, nil
}

// HighMovement los 10 productos con más unidades movidas (Σ |quantity_change|).
func (uc *AuditUseCase) HighMovement(ctx context.Context) ([]dto.HighMovementDTO, error) {
	rows, err := uc.reports.HighMovement(ctx, auditTopLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HighMovementDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.HighMovementDTO{ProductID: r.ProductID, SKU: r.SKU, Name: r.Name, TotalMovement: r.Count})
	}
	return out, nil
}
