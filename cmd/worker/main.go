// worker procesa la cola asynq: entrega del log de actividad y escaneo periódico de stock bajo.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/bootstrap"
	"github.com/jhoicas/wms-api/internal/infrastructure/jobs"
	"github.com/jhoicas/wms-api/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-api/pkg/config"
	"github.com/jhoicas/wms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "worker"})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("infraestructura")
	}
	defer infra.Close()

	m := metrics.New()
	scan := jobs.NewLowStockScanJob(postgres.NewReportRepository(infra.Pool), m, log)
	activity := jobs.NewActivityHandler(postgres.NewActivityRepository(infra.Pool))

	var cron []jobs.CronRegistration
	if cfg.Jobs.LowStockCron != "" {
		task, err := jobs.NewLowStockScanTask(time.Now().UTC())
		if err != nil {
			log.Fatal().Err(err).Msg("tarea de stock bajo")
		}
		cron = append(cron, jobs.CronRegistration{Spec: cfg.Jobs.LowStockCron, Task: task})
	}

	w, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   bootstrap.RedisOpt(cfg.Redis),
		Concurrency: cfg.Jobs.Concurrency,
		Logger:      log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskActivityRecord, Handler: activity.Handle},
			{Type: jobs.TaskLowStockScan, Handler: scan.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}

	if cfg.Jobs.MetricsAddr != "" {
		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Get("/metrics", m.Handler())
		go func() {
			if err := app.Listen(cfg.Jobs.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("servidor de métricas finalizado")
			}
		}()
		defer func() { _ = app.Shutdown() }()
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
		return
	}
	log.Info().Msg("worker detenido")
}
