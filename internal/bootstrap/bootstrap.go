// Package bootstrap arma la infraestructura y los casos de uso comunes a cmd/api, cmd/worker y cmd/wmsctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-api/internal/application/activity"
	appanalytics "github.com/jhoicas/wms-api/internal/application/analytics"
	"github.com/jhoicas/wms-api/internal/application/attachment"
	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/catalog"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/infrastructure/cache"
	"github.com/jhoicas/wms-api/internal/infrastructure/jobs"
	"github.com/jhoicas/wms-api/internal/infrastructure/lock"
	"github.com/jhoicas/wms-api/internal/infrastructure/pdf"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-api/pkg/config"
)

// Infra conexiones abiertas. Redis es opcional: sin REDIS_ADDR no hay caché, candado ni cola.
type Infra struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Queue *asynq.Client
}

// Open conecta PostgreSQL y, si está configurado, Redis.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Infra, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	infra := &Infra{Pool: pool}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			pool.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		infra.Redis = rdb
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis conectado")
	}
	if cfg.Jobs.Enabled {
		infra.Queue = asynq.NewClient(RedisOpt(cfg.Redis))
	}
	return infra, nil
}

// RedisOpt opciones de conexión de asynq.
func RedisOpt(c config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// Close libera las conexiones.
func (i *Infra) Close() {
	if i.Queue != nil {
		_ = i.Queue.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	i.Pool.Close()
}

// Services casos de uso listos para los adaptadores de entrada.
type Services struct {
	Auth          *auth.AuthUseCase
	Products      *catalog.ProductUseCase
	Suppliers     *catalog.SupplierUseCase
	CatalogImport *catalog.ImportUseCase
	Workflow      *inventory.WorkflowUseCase
	Query         *inventory.QueryUseCase
	Attachments   *attachment.UseCase
	Dashboard     *appanalytics.DashboardUseCase
	Valuation     *appanalytics.ValuationUseCase
	Audit         *appanalytics.AuditUseCase
	Activity      *activity.QueryUseCase
}

// Options piezas que cambian entre binarios.
type Options struct {
	Observer inventory.WorkflowObserver // nil = sin métricas
	Storage  ports.FileStorage          // nil = sin adjuntos (CLI)
}

// NewServices construye los casos de uso sobre la infraestructura abierta.
// Con JOBS_ENABLED el log de actividad se encola; si no, se escribe en línea tras el commit.
func NewServices(cfg *config.Config, infra *Infra, opts Options, log zerolog.Logger) *Services {
	pool := infra.Pool
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout())
	reports := postgres.NewReportRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	outboundRepo := postgres.NewOutboundRepository(pool)

	var recorder activity.Recorder = activity.NewRepositoryRecorder(activityRepo)
	if infra.Queue != nil {
		recorder = jobs.NewQueueRecorder(infra.Queue)
	}
	activityLogger := activity.NewLogger(recorder, log)

	// Interfaces nil explícitas cuando no hay Redis.
	var (
		readCache   ports.ReadCache
		invalidator ports.CacheInvalidator
		locker      ports.Locker
	)
	if infra.Redis != nil {
		c := cache.New(infra.Redis, cfg.Redis.CacheTTL())
		readCache, invalidator = c, c
		locker = lock.NewRedisLocker(infra.Redis, 0)
	}

	renderer := pdf.NewMarotoPDFGenerator(cfg.App.Company)

	s := &Services{
		Auth: auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Products:      catalog.NewProductUseCase(txRunner, postgres.NewProductRepository(pool), renderer, activityLogger, invalidator, log),
		Suppliers:     catalog.NewSupplierUseCase(postgres.NewSupplierRepository(pool), activityLogger),
		CatalogImport: catalog.NewImportUseCase(txRunner, locker, activityLogger, invalidator, log),
		Workflow:      inventory.NewWorkflowUseCase(txRunner, activityLogger, opts.Observer, invalidator, log),
		Query: inventory.NewQueryUseCase(
			reports,
			postgres.NewAuditRepository(pool),
			postgres.NewInboundRepository(pool),
			outboundRepo,
		),
		Dashboard: appanalytics.NewDashboardUseCase(reports, readCache),
		Valuation: appanalytics.NewValuationUseCase(reports, readCache),
		Audit:     appanalytics.NewAuditUseCase(reports),
		Activity:  activity.NewQueryUseCase(activityRepo),
	}
	if opts.Storage != nil {
		s.Attachments = attachment.NewUseCase(
			outboundRepo,
			postgres.NewAttachmentRepository(pool),
			opts.Storage,
			renderer,
			activityLogger,
			log,
			cfg.Upload.MaxAttachmentBytes,
		)
	}
	return s
}
