// Package metrics instrumentación Prometheus: movimientos de inventario, stock bajo y HTTP.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/infrastructure/jobs"
)

const namespace = "wms"

var (
	_ inventory.WorkflowObserver = (*Metrics)(nil)
	_ jobs.LowStockGauge         = (*Metrics)(nil)
)

// Metrics registro propio y colectores de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	workflowTotal    *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	movedUnits       *prometheus.CounterVec
	lowStock         prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New crea el registro con los colectores de runtime y los de la aplicación.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workflowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "workflows_total",
			Help:      "Flujos de entrada/salida ejecutados por tipo y resultado.",
		}, []string{"kind", "result"}),
		workflowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "workflow_duration_seconds",
			Help:      "Duración de la transacción de cada flujo.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		movedUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "units_moved_total",
			Help:      "Unidades confirmadas por tipo de flujo.",
		}, []string{"kind"}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "low_stock_products",
			Help:      "Productos activos con cantidad <= umbral en el último escaneo.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Solicitudes HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las solicitudes HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.workflowTotal, m.workflowDuration, m.movedUnits, m.lowStock,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry expone el registro para pruebas o colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveWorkflow implementa inventory.WorkflowObserver.
func (m *Metrics) ObserveWorkflow(kind string, _ int, units int64, err error, elapsed time.Duration) {
	m.workflowTotal.WithLabelValues(kind, Result(err)).Inc()
	m.workflowDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err == nil {
		m.movedUnits.WithLabelValues(kind).Add(float64(units))
	}
}

// SetLowStock implementa jobs.LowStockGauge.
func (m *Metrics) SetLowStock(n int) { m.lowStock.Set(float64(n)) }

// Result etiqueta de resultado según el error de dominio.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "record_not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// Middleware registra conteo y duración por ruta (el patrón de la ruta, no la URL).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
