package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/testutil/memstore"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

var actor = entity.Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: entity.RoleManager}

type fixture struct {
	store      *memstore.Store
	uc         *inventory.WorkflowUseCase
	productID  string
	supplierID string
	observer   *observerSpy
	invalid    *invalidatorSpy
}

type observerSpy struct {
	mu    sync.Mutex
	kinds []string
	errs  []error
}

func (o *observerSpy) ObserveWorkflow(kind string, _ int, _ int64, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kinds = append(o.kinds, kind)
	o.errs = append(o.errs, err)
}

type invalidatorSpy struct {
	mu    sync.Mutex
	calls int
}

func (i *invalidatorSpy) Invalidate(context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	return nil
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, *entity.ActivityLog) error {
	return errors.New("activity_logs no disponible")
}

// newFixture crea un producto con stock inicial qty@avg y un proveedor activo.
func newFixture(t *testing.T, qty int64, avg string) *fixture {
	t.Helper()
	store := memstore.New()
	productID := uuid.NewString()
	supplierID := uuid.NewString()
	store.SeedProduct(
		entity.Product{ID: productID, SKU: "SKU-001", Name: "Tornillo", Category: "ferretería", LowStockThreshold: 5},
		entity.InventoryRecord{Quantity: qty, AvgCost: decimal.RequireFromString(avg)},
	)
	store.SeedSupplier(entity.Supplier{ID: supplierID, Name: "Proveedor Uno", ContactPerson: "Ana", Status: "active"})

	obs := &observerSpy{}
	inv := &invalidatorSpy{}
	logger := activity.NewLogger(activity.NewRepositoryRecorder(store.Activity()), zerolog.Nop())
	uc := inventory.NewWorkflowUseCase(store, logger, obs, inv, zerolog.Nop())
	return &fixture{store: store, uc: uc, productID: productID, supplierID: supplierID, observer: obs, invalid: inv}
}

func cost(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) inbound(qty int64, unitCost string) dto.CreateInboundRequest {
	return dto.CreateInboundRequest{
		SupplierID:   f.supplierID,
		ReferenceNo:  "PO-1",
		ReceivedDate: "2024-03-01",
		Items:        []dto.InboundItemRequest{{ProductID: f.productID, Quantity: qty, UnitCost: cost(unitCost)}},
	}
}

func (f *fixture) outbound(qty int64) dto.CreateOutboundRequest {
	return dto.CreateOutboundRequest{
		CustomerName: "Cliente SA",
		SOReference:  "SO-1",
		DispatchDate: "2024-03-02",
		Items:        []dto.OutboundItemRequest{{ProductID: f.productID, Quantity: qty}},
	}
}

func (f *fixture) record(t *testing.T) entity.InventoryRecord {
	t.Helper()
	rec, ok := f.store.Inventory(f.productID)
	require.True(t, ok)
	return rec
}

// ── Entradas y salidas ───────────────────────────────────────────────────────

func TestCreateInbound_ActualizaCostoPromedio(t *testing.T) {
	f := newFixture(t, 10, "5")

	res, err := f.uc.CreateInbound(context.Background(), actor, f.inbound(5, "8"))
	require.NoError(t, err)
	require.NotEmpty(t, res.DocumentID)

	rec := f.record(t)
	assert.Equal(t, int64(15), rec.Quantity)
	assert.True(t, decimal.NewFromInt(6).Equal(rec.AvgCost), "avg=%s", rec.AvgCost)

	snap := f.store.Snapshot()
	require.Len(t, snap.Inbound, 1)
	require.Len(t, snap.InboundItems, 1)
	assert.Equal(t, res.DocumentID, snap.InboundItems[0].InboundID)
	require.Len(t, snap.Audit, 1)
	assert.Equal(t, entity.ChangeInbound, snap.Audit[0].ChangeType)
	assert.Equal(t, int64(5), snap.Audit[0].QuantityChange)
	assert.Equal(t, res.DocumentID, snap.Audit[0].ReferenceID)

	require.Len(t, snap.Activity, 1)
	assert.Equal(t, entity.ActionCreate, snap.Activity[0].Action)
	assert.Equal(t, entity.EntityInbound, snap.Activity[0].Entity)
	assert.Equal(t, res.DocumentID, snap.Activity[0].EntityID)
	assert.Equal(t, 1, f.invalid.calls)
	assert.Equal(t, []string{"inbound"}, f.observer.kinds)
}

func TestCreateInbound_AvanzaUpdatedAt(t *testing.T) {
	store := memstore.New()
	productID := uuid.NewString()
	supplierID := uuid.NewString()
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SeedProduct(
		entity.Product{ID: productID, SKU: "SKU-TS", Name: "Arandela"},
		entity.InventoryRecord{Quantity: 1, AvgCost: decimal.NewFromInt(2), UpdatedAt: old},
	)
	store.SeedSupplier(entity.Supplier{ID: supplierID, Name: "Proveedor Dos", ContactPerson: "Luis", Status: "active"})
	uc := inventory.NewWorkflowUseCase(store, activity.NewLogger(activity.NewRepositoryRecorder(store.Activity()), zerolog.Nop()), nil, nil, zerolog.Nop())

	_, err := uc.CreateInbound(context.Background(), actor, dto.CreateInboundRequest{
		SupplierID:   supplierID,
		ReceivedDate: "2024-03-01",
		Items:        []dto.InboundItemRequest{{ProductID: productID, Quantity: 5, UnitCost: cost("3")}},
	})
	require.NoError(t, err)

	rec, ok := store.Inventory(productID)
	require.True(t, ok)
	assert.Equal(t, int64(6), rec.Quantity)
	assert.True(t, rec.UpdatedAt.After(old))
	assert.WithinDuration(t, time.Now(), rec.UpdatedAt, time.Minute)

	_, err = uc.CreateOutbound(context.Background(), actor, dto.CreateOutboundRequest{
		CustomerName: "Cliente SA",
		DispatchDate: "2024-03-02",
		Items:        []dto.OutboundItemRequest{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)
	after, _ := store.Inventory(productID)
	assert.False(t, after.UpdatedAt.Before(rec.UpdatedAt))
}

func TestCreateOutbound_DescuentaSinCambiarCosto(t *testing.T) {
	f := newFixture(t, 15, "6")

	res, err := f.uc.CreateOutbound(context.Background(), actor, f.outbound(4))
	require.NoError(t, err)

	rec := f.record(t)
	assert.Equal(t, int64(11), rec.Quantity)
	assert.True(t, decimal.NewFromInt(6).Equal(rec.AvgCost))

	snap := f.store.Snapshot()
	require.Len(t, snap.Audit, 1)
	assert.Equal(t, entity.ChangeOutbound, snap.Audit[0].ChangeType)
	assert.Equal(t, int64(-4), snap.Audit[0].QuantityChange)
	assert.Equal(t, res.DocumentID, snap.Audit[0].ReferenceID)
}

func TestCreateOutbound_StockInsuficienteNoDejaDocumentos(t *testing.T) {
	f := newFixture(t, 3, "2")

	_, err := f.uc.CreateOutbound(context.Background(), actor, f.outbound(4))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), f.record(t).Quantity)
	snap := f.store.Snapshot()
	assert.Empty(t, snap.Outbound)
	assert.Empty(t, snap.OutboundItems)
	assert.Empty(t, snap.Audit)
	assert.Empty(t, snap.Activity)
	assert.Equal(t, 0, f.invalid.calls)
	require.Len(t, f.observer.errs, 1)
	assert.Error(t, f.observer.errs[0])
}

func TestCreateOutbound_SegundaLineaFallidaRevierteLaPrimera(t *testing.T) {
	f := newFixture(t, 10, "1")
	req := f.outbound(2)
	req.Items = append(req.Items, dto.OutboundItemRequest{ProductID: f.productID, Quantity: 9})

	_, err := f.uc.CreateOutbound(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "línea 2")

	assert.Equal(t, int64(10), f.record(t).Quantity)
	assert.Empty(t, f.store.Snapshot().Audit)
}

func TestCreateInbound_ProveedorInexistenteEsValidacion(t *testing.T) {
	f := newFixture(t, 0, "0")
	req := f.inbound(1, "1")
	req.SupplierID = uuid.NewString()

	_, err := f.uc.CreateInbound(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "supplier_id", ve.Field)
	assert.Empty(t, f.store.Snapshot().Inbound)
}

func TestCreateInbound_ProductoSinRegistroDeInventario(t *testing.T) {
	f := newFixture(t, 0, "0")
	orphan := uuid.NewString()
	f.store.SeedProductWithoutInventory(entity.Product{ID: orphan, SKU: "SKU-ORPHAN", Name: "Huérfano"})
	req := f.inbound(1, "1")
	req.Items[0].ProductID = orphan

	_, err := f.uc.CreateInbound(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.Empty(t, f.store.Snapshot().InboundItems)
}

func TestCreateInbound_ProductoInexistente(t *testing.T) {
	f := newFixture(t, 0, "0")
	req := f.inbound(1, "1")
	req.Items[0].ProductID = uuid.NewString()

	_, err := f.uc.CreateInbound(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestCreateInbound_EntradaInvalida(t *testing.T) {
	f := newFixture(t, 0, "0")

	cases := map[string]func(*dto.CreateInboundRequest){
		"sin líneas":       func(r *dto.CreateInboundRequest) { r.Items = nil },
		"cantidad cero":    func(r *dto.CreateInboundRequest) { r.Items[0].Quantity = 0 },
		"sin costo":        func(r *dto.CreateInboundRequest) { r.Items[0].UnitCost = nil },
		"costo negativo":   func(r *dto.CreateInboundRequest) { r.Items[0].UnitCost = cost("-1") },
		"fecha inválida":   func(r *dto.CreateInboundRequest) { r.ReceivedDate = "01/03/2024" },
		"proveedor no uid": func(r *dto.CreateInboundRequest) { r.SupplierID = "abc" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := f.inbound(1, "1")
			mutate(&req)
			_, err := f.uc.CreateInbound(context.Background(), actor, req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.Snapshot().Inbound)
}

func TestWorkflow_FalloDeActividadNoRevierteElCommit(t *testing.T) {
	f := newFixture(t, 0, "0")
	uc := inventory.NewWorkflowUseCase(f.store, activity.NewLogger(failingRecorder{}, zerolog.Nop()), nil, nil, zerolog.Nop())

	res, err := uc.CreateInbound(context.Background(), actor, f.inbound(7, "3"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.DocumentID)
	assert.Equal(t, int64(7), f.record(t).Quantity)
	assert.Len(t, f.store.Snapshot().Audit, 1)
}

func TestWorkflow_FalloDeAuditoriaRevierteTodo(t *testing.T) {
	f := newFixture(t, 10, "1")
	f.store.FailAuditAppend = errors.New("audit_logs no disponible")

	_, err := f.uc.CreateOutbound(context.Background(), actor, f.outbound(1))
	require.Error(t, err)
	assert.Equal(t, int64(10), f.record(t).Quantity)
	assert.Empty(t, f.store.Snapshot().Outbound)
}

func TestCreateOutbound_ConcurrenciaNuncaDejaStockNegativo(t *testing.T) {
	f := newFixture(t, 10, "2")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateOutbound(context.Background(), actor, f.outbound(6))
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
	assert.Equal(t, int64(4), f.record(t).Quantity)
	assert.Len(t, f.store.Snapshot().Audit, 1)
}

// ── Importación masiva ───────────────────────────────────────────────────────

func inboundRow(line int, supplierID, productID, qty, unitCost string) tabular.Row {
	return tabular.Row{Line: line, Values: map[string]string{
		"supplier_id":   supplierID,
		"product_id":    productID,
		"quantity":      qty,
		"unit_cost":     unitCost,
		"received_date": "2024-03-01",
		"reference_no":  "PO-BULK",
	}}
}

func outboundRow(line int, productID, qty string) tabular.Row {
	return tabular.Row{Line: line, Values: map[string]string{
		"customer_name": "Cliente SA",
		"product_id":    productID,
		"quantity":      qty,
		"dispatch_date": "2024-03-02",
	}}
}

func TestBulkImport_EntradasAplicaTodasLasFilas(t *testing.T) {
	f := newFixture(t, 0, "0")
	rows := []tabular.Row{
		inboundRow(2, f.supplierID, f.productID, "10", "5"),
		inboundRow(3, f.supplierID, f.productID, "5", "8"),
	}

	res, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportInbound, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)

	rec := f.record(t)
	assert.Equal(t, int64(15), rec.Quantity)
	assert.True(t, decimal.NewFromInt(6).Equal(rec.AvgCost))

	snap := f.store.Snapshot()
	assert.Len(t, snap.Inbound, 2, "una cabecera por fila")
	assert.Len(t, snap.Audit, 2)
	require.Len(t, snap.Activity, 1)
	assert.Equal(t, entity.ActionImport, snap.Activity[0].Action)
}

func TestBulkImport_FilaInvalidaNoAplicaNada(t *testing.T) {
	f := newFixture(t, 0, "0")
	rows := []tabular.Row{
		inboundRow(2, f.supplierID, f.productID, "1", "1"),
		inboundRow(3, f.supplierID, f.productID, "1", "1"),
		inboundRow(4, f.supplierID, f.productID, "1", "1"),
		inboundRow(5, f.supplierID, f.productID, "", "1"),
		inboundRow(6, f.supplierID, f.productID, "1", "1"),
		inboundRow(7, f.supplierID, f.productID, "1", "1"),
	}

	_, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportInbound, rows)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 5, rowErr.Row)

	assert.Equal(t, int64(0), f.record(t).Quantity)
	snap := f.store.Snapshot()
	assert.Empty(t, snap.Inbound)
	assert.Empty(t, snap.Audit)
	assert.Equal(t, 0, f.store.Commits)
}

func TestBulkImport_SalidaInsuficienteRevierteElArchivo(t *testing.T) {
	f := newFixture(t, 5, "2")
	rows := []tabular.Row{
		outboundRow(2, f.productID, "3"),
		outboundRow(3, f.productID, "3"),
	}

	_, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportOutbound, rows)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)

	assert.Equal(t, int64(5), f.record(t).Quantity)
	snap := f.store.Snapshot()
	assert.Empty(t, snap.Outbound)
	assert.Empty(t, snap.Audit)
}

func TestBulkImport_ProveedorInexistenteIndicaLaFila(t *testing.T) {
	f := newFixture(t, 0, "0")
	rows := []tabular.Row{
		inboundRow(2, f.supplierID, f.productID, "1", "1"),
		inboundRow(3, uuid.NewString(), f.productID, "1", "1"),
	}

	_, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportInbound, rows)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Snapshot().Inbound)
}

func TestBulkImport_ArchivoVacio(t *testing.T) {
	f := newFixture(t, 0, "0")
	_, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportOutbound, nil)
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestBulkImport_TipoDesconocido(t *testing.T) {
	f := newFixture(t, 0, "0")
	rows := []tabular.Row{outboundRow(2, f.productID, "1")}
	_, err := f.uc.BulkImportMovements(context.Background(), actor, inventory.ImportKind("transfer"), rows)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestQuery_HistorialYAuditoria(t *testing.T) {
	f := newFixture(t, 10, "5")
	ctx := context.Background()

	in, err := f.uc.CreateInbound(ctx, actor, f.inbound(5, "8"))
	require.NoError(t, err)
	out, err := f.uc.CreateOutbound(ctx, actor, f.outbound(3))
	require.NoError(t, err)

	repos := f.store.Repos()
	q := inventory.NewQueryUseCase(nil, repos.Audit, repos.Inbound, repos.Outbound)

	inHist, err := q.InboundHistory(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, inHist, 1)
	assert.Equal(t, in.DocumentID, inHist[0].ID)
	assert.Equal(t, "Proveedor Uno", inHist[0].SupplierName)
	assert.Equal(t, "2024-03-01", inHist[0].ReceivedDate)
	assert.Equal(t, 1, inHist[0].TotalItems)
	assert.Equal(t, int64(5), inHist[0].TotalQuantity)

	outHist, err := q.OutboundHistory(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, outHist, 1)
	assert.Equal(t, out.DocumentID, outHist[0].ID)
	assert.Equal(t, "2024-03-02", outHist[0].DispatchDate)
	assert.Equal(t, int64(3), outHist[0].TotalQuantity)

	trail, err := q.AuditTrail(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, trail, 2)
	changes := map[string]int64{}
	for _, e := range trail {
		changes[e.ReferenceID] = e.QuantityChange
	}
	assert.Equal(t, int64(5), changes[in.DocumentID])
	assert.Equal(t, int64(-3), changes[out.DocumentID])
}
