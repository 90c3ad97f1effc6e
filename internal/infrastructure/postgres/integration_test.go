//go:build integration

// Pruebas contra PostgreSQL real (testcontainers). Ejecutar con:
//
//	go test -tags integration ./internal/infrastructure/postgres/...
package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/wms-api/internal/application/dto"
	appinv "github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	domaininv "github.com/jhoicas/wms-api/internal/domain/inventory"
	"github.com/jhoicas/wms-api/internal/domain/repository"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-api/pkg/config"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("wms_test"),
		tcPostgres.WithUsername("wms"),
		tcPostgres.WithPassword("wms"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	again, err := postgres.Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, again)
	return pool
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type seeded struct {
	productID  string
	supplierID string
	userID     string
}

func seed(t *testing.T, pool *pgxpool.Pool, qty int64, avg string) seeded {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	s := seeded{productID: uuid.NewString(), supplierID: uuid.NewString(), userID: uuid.NewString()}

	repos := postgres.TxRepos(pool)
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: s.productID, SKU: "SKU-" + s.productID[:8], Name: "Tornillo", Status: entity.ProductActive,
		LowStockThreshold: 5, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Inventory.Create(ctx, &entity.InventoryRecord{
		ID: uuid.NewString(), ProductID: s.productID, Quantity: qty, AvgCost: decimal.RequireFromString(avg), UpdatedAt: now,
	}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{
		ID: s.supplierID, Name: "Proveedor", ContactPerson: "Ana", Status: "active", CreatedAt: now,
	}))
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, &entity.User{
		ID: s.userID, Email: s.userID + "@example.com", PasswordHash: "x", Name: "Op",
		Role: entity.RoleOperator, Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	return s
}

func TestIntegration_WorkflowCostoPromedio(t *testing.T) {
	pool := setupDB(t)
	s := seed(t, pool, 10, "5")
	ctx := context.Background()

	uc := appinv.NewWorkflowUseCase(postgres.NewTxRunner(pool, time.Second), nil, nil, nil, zerolog.Nop())
	_, err := uc.CreateInbound(ctx, entity.Actor{UserID: s.userID, Role: entity.RoleManager}, dto.CreateInboundRequest{
		SupplierID:   s.supplierID,
		ReceivedDate: "2026-03-02",
		Items:        []dto.InboundItemRequest{{ProductID: s.productID, Quantity: 5, UnitCost: decimalPtr("8")}},
	})
	require.NoError(t, err)

	rec, err := postgres.NewInventoryRepository(pool).GetByProduct(ctx, s.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), rec.Quantity)
	assert.True(t, rec.AvgCost.Equal(decimal.NewFromInt(6)), rec.AvgCost.String())

	audit, err := postgres.NewAuditRepository(pool).List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, int64(5), audit[0].QuantityChange)

	history, err := postgres.NewInboundRepository(pool).List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Proveedor", history[0].SupplierName)
	assert.Equal(t, int64(5), history[0].TotalQuantity)
}

func TestIntegration_SalidasConcurrentesSeSerializan(t *testing.T) {
	pool := setupDB(t)
	s := seed(t, pool, 10, "5")
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool, 5*time.Second)

	outbound := func() error {
		return runner.Run(ctx, func(r ports.TxRepos) error {
			err := appinv.ApplyMovement(ctx, r.Inventory, domaininv.Movement{
				ProductID: s.productID, Quantity: 6, Type: domaininv.Outbound,
			})
			// Mantener el bloqueo un momento para forzar la espera de la otra transacción.
			time.Sleep(100 * time.Millisecond)
			return err
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = outbound()
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	rec, err := postgres.NewInventoryRepository(pool).GetByProduct(ctx, s.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.Quantity)
}

func TestIntegration_LockTimeoutEsConflicto(t *testing.T) {
	pool := setupDB(t)
	s := seed(t, pool, 10, "5")
	ctx := context.Background()

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- postgres.NewTxRunner(pool, 0).Run(ctx, func(r ports.TxRepos) error {
			if _, err := r.Inventory.GetForUpdate(ctx, s.productID); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	err := postgres.NewTxRunner(pool, 200*time.Millisecond).Run(ctx, func(r ports.TxRepos) error {
		return appinv.ApplyMovement(ctx, r.Inventory, domaininv.Movement{
			ProductID: s.productID, Quantity: 1, Type: domaininv.Outbound,
		})
	})
	close(release)
	require.NoError(t, <-done)
	assert.ErrorIs(t, err, domain.ErrConflict)

	rec, err := postgres.NewInventoryRepository(pool).GetByProduct(ctx, s.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.Quantity)
}

func TestIntegration_AuditoriaEsAppendOnly(t *testing.T) {
	pool := setupDB(t)
	s := seed(t, pool, 10, "5")
	ctx := context.Background()

	require.NoError(t, postgres.NewAuditRepository(pool).Append(ctx, &entity.AuditEntry{
		ID: uuid.NewString(), ProductID: s.productID, ChangeType: entity.ChangeInbound,
		QuantityChange: 3, ReferenceID: uuid.NewString(), CreatedAt: time.Now().UTC(),
	}))

	_, err := pool.Exec(ctx, `UPDATE audit_logs SET quantity_change = 99`)
	assert.Error(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM audit_logs`)
	assert.Error(t, err)
}

func TestIntegration_ProductoSkuDuplicadoYFiltros(t *testing.T) {
	pool := setupDB(t)
	s := seed(t, pool, 0, "0")
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)

	p, err := products.GetByID(ctx, s.productID)
	require.NoError(t, err)

	dup := *p
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, products.Create(ctx, &dup), domain.ErrDuplicate)

	missing, err := products.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := products.ListActive(ctx, repository.ProductFilter{Query: "tornil"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	changed, err := products.Archive(ctx, s.productID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = products.Archive(ctx, s.productID, true)
	require.NoError(t, err)
	assert.False(t, changed)
}
