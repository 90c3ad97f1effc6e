package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// ActivityHandler procesa activity:record escribiendo en activity_logs.
type ActivityHandler struct {
	repo repository.ActivityLogRepository
}

// NewActivityHandler construye el handler.
func NewActivityHandler(repo repository.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// Handle implementa asynq.HandlerFunc. Un payload inválido no se reintenta; un id ya escrito
// (reintento tras un commit exitoso) se considera entregado.
func (h *ActivityHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var p ActivityPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("activity payload: %v: %w", err, asynq.SkipRetry)
	}
	err := h.repo.Create(ctx, &entity.ActivityLog{
		ID:        p.ID,
		UserID:    p.UserID,
		Action:    p.Action,
		Entity:    p.Entity,
		EntityID:  p.EntityID,
		CreatedAt: p.CreatedAt,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}

// LowStockSource consulta de productos bajo umbral.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]repository.LowStockRow, error)
}

// LowStockGauge recibe el número de productos bajo umbral (métrica).
type LowStockGauge interface {
	SetLowStock(n int)
}

// LowStockScanJob registra en el log los productos con cantidad <= umbral y publica el conteo.
type LowStockScanJob struct {
	source LowStockSource
	gauge  LowStockGauge
	log    zerolog.Logger
}

// NewLowStockScanJob construye el job. gauge puede ser nil.
func NewLowStockScanJob(source LowStockSource, gauge LowStockGauge, log zerolog.Logger) *LowStockScanJob {
	return &LowStockScanJob{source: source, gauge: gauge, log: log}
}

// Handle implementa asynq.HandlerFunc.
func (j *LowStockScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	rows, err := j.source.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock scan: %w", err)
	}
	for _, r := range rows {
		j.log.Warn().
			Str("product_id", r.ProductID).
			Str("sku", r.SKU).
			Int64("quantity", r.Quantity).
			Int("threshold", r.LowStockThreshold).
			Msg("producto con stock bajo")
	}
	if j.gauge != nil {
		j.gauge.SetLowStock(len(rows))
	}
	j.log.Info().Int("products", len(rows)).Msg("escaneo de stock bajo completado")
	return nil
}
