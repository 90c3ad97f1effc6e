package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/wms-api/docs"
	"github.com/jhoicas/wms-api/internal/bootstrap"
	"github.com/jhoicas/wms-api/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/wms-api/internal/interfaces/http"
	"github.com/jhoicas/wms-api/pkg/config"
	"github.com/jhoicas/wms-api/pkg/logger"
)

// @title                       WMS API
// @version                     1.0
// @description                 Inventario de bodega: entradas, salidas, costo promedio ponderado e importaciones masivas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("infraestructura")
	}
	defer infra.Close()

	files, err := storage.New(ctx, storage.Config{
		Driver:    cfg.Storage.Driver,
		LocalRoot: cfg.Storage.LocalRoot,
		S3: storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de adjuntos")
	}

	m := metrics.New()
	svc := bootstrap.NewServices(cfg, infra, bootstrap.Options{Observer: m, Storage: files}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Upload.MaxImportBytes) + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "WMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:        httpRouter.NewAuthHandler(svc.Auth),
		Products:    httpRouter.NewProductHandler(svc.Products),
		Suppliers:   httpRouter.NewSupplierHandler(svc.Suppliers),
		Inventory:   httpRouter.NewInventoryHandler(svc.Workflow, svc.Query),
		Attachments: httpRouter.NewAttachmentHandler(svc.Attachments),
		Bulk:        httpRouter.NewBulkHandler(svc.Workflow, svc.CatalogImport, cfg.Upload.MaxImportBytes),
		Dashboard:   httpRouter.NewDashboardHandler(svc.Dashboard, svc.Activity),
		Analytics:   httpRouter.NewAnalyticsHandler(svc.Valuation, svc.Audit),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
