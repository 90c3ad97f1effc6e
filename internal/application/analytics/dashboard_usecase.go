// Package analytics contiene los casos de uso de reportes de bodega: dashboard operativo,
// valorización de inventario y tablero de auditoría.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

const (
	dashboardRecentActivity = 10
	dashboardDefaultDays    = 7
	dashboardMaxDays        = 366
)

// DashboardUseCase resumen operativo: KPIs del día, actividad reciente y volumen diario.
//
// Fuente de datos: ReportRepository (consultas read-only). El resultado se guarda en la caché
// versionada; cada movimiento confirmado incrementa la versión.
type DashboardUseCase struct {
	reports repository.ReportRepository
	cache   ports.ReadCache
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(reports repository.ReportRepository, cache ports.ReadCache) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, cache: cache, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Rango por defecto: últimos 7 días hasta hoy. product_id filtra las unidades de hoy y el
// volumen diario; el total en stock y las alertas son globales.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, q dto.DashboardQuery) (*dto.DashboardSummaryDTO, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	start, end, err := dashboardRange(q, now)
	if err != nil {
		return nil, err
	}

	key := strings.Join([]string{"dashboard", "summary", start.Format(time.DateOnly), end.Format(time.DateOnly), now.Format(time.DateOnly), orDash(q.ProductID)}, ":")
	return cached(ctx, uc.cache, key, func(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
		return uc.load(ctx, start, end, now, q.ProductID)
	})
}

func (uc *DashboardUseCase) load(ctx context.Context, start, end, now time.Time, productID string) (*dto.DashboardSummaryDTO, error) {
	today := truncateDay(now)

	var (
		out      dto.DashboardSummaryDTO
		activity []repository.ActivityRow
		volume   []repository.DailyVolume
	)

	// ── Consultas en paralelo ──────────────────────────────────────────────────
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := uc.reports.TotalUnits(ctx)
		if err != nil {
			return fmt.Errorf("dashboard: unidades en stock: %w", err)
		}
		out.Stats.TotalInventoryItems = v
		return nil
	})
	g.Go(func() error {
		v, err := uc.reports.InboundUnitsOn(ctx, today, productID)
		if err != nil {
			return fmt.Errorf("dashboard: entradas de hoy: %w", err)
		}
		out.Stats.InboundToday = v
		return nil
	})
	g.Go(func() error {
		v, err := uc.reports.OutboundUnitsOn(ctx, today, productID)
		if err != nil {
			return fmt.Errorf("dashboard: salidas de hoy: %w", err)
		}
		out.Stats.OutboundToday = v
		return nil
	})
	g.Go(func() error {
		v, err := uc.reports.LowStockCount(ctx)
		if err != nil {
			return fmt.Errorf("dashboard: alertas de stock bajo: %w", err)
		}
		out.Stats.LowStockAlerts = v
		return nil
	})
	g.Go(func() error {
		rows, err := uc.reports.ActivityBetween(ctx, start, end.Add(24*time.Hour-time.Nanosecond), dashboardRecentActivity)
		if err != nil {
			return fmt.Errorf("dashboard: actividad reciente: %w", err)
		}
		activity = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.reports.DailyVolume(ctx, start, end, productID)
		if err != nil {
			return fmt.Errorf("dashboard: volumen diario: %w", err)
		}
		volume = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out.RecentActivity = make([]dto.ActivityLogDTO, 0, len(activity))
	for _, a := range activity {
		out.RecentActivity = append(out.RecentActivity, dto.ActivityLogDTO{
			ID:        a.ID,
			Action:    a.Action,
			Entity:    a.Entity,
			EntityID:  a.EntityID,
			CreatedAt: a.CreatedAt,
			Email:     a.Email,
			Role:      a.Role,
		})
	}
	out.DailyVolume = fillDays(start, end, volume)
	return &out, nil
}

// fillDays devuelve un registro por cada día del rango, con ceros donde no hubo movimiento.
func fillDays(start, end time.Time, rows []repository.DailyVolume) []dto.DailyVolumeDTO {
	byDay := make(map[string]repository.DailyVolume, len(rows))
	for _, r := range rows {
		k := r.Date.Format(time.DateOnly)
		acc := byDay[k]
		acc.Inbound += r.Inbound
		acc.Outbound += r.Outbound
		byDay[k] = acc
	}
	out := make([]dto.DailyVolumeDTO, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		k := d.Format(time.DateOnly)
		v := byDay[k]
		out = append(out, dto.DailyVolumeDTO{Date: k, Inbound: v.Inbound, Outbound: v.Outbound})
	}
	return out
}

func dashboardRange(q dto.DashboardQuery, now time.Time) (time.Time, time.Time, error) {
	end := truncateDay(now)
	if q.EndDate != "" {
		d, err := parseDay("end_date", q.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	start := end.AddDate(0, 0, -dashboardDefaultDays)
	if q.StartDate != "" {
		d, err := parseDay("start_date", q.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.Invalid("start_date", "no puede ser posterior a end_date")
	}
	if end.Sub(start) > dashboardMaxDays*24*time.Hour {
		return time.Time{}, time.Time{}, domain.Invalid("start_date", fmt.Sprintf("el rango no puede superar %d días", dashboardMaxDays))
	}
	return start, end, nil
}

func parseDay(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncateDay(t.UTC()), nil
	}
	return time.Time{}, domain.Invalid(field, "debe tener formato YYYY-MM-DD")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// cached pasa por la caché de lecturas si está configurada.
func cached[T any](ctx context.Context, c ports.ReadCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var out T
	err := c.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	return out, err
}
