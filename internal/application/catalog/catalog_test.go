package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/catalog"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/testutil/memstore"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

var admin = entity.Actor{UserID: uuid.NewString(), Role: entity.RoleAdmin}

type rendererStub struct{ sku string }

func (r *rendererStub) ProductLabel(_ context.Context, p *entity.Product) ([]byte, error) {
	r.sku = p.SKU
	return []byte("%PDF-label"), nil
}

func (r *rendererStub) DispatchNote(context.Context, *entity.OutboundDocument, []entity.OutboundLineDetail) ([]byte, error) {
	return []byte("%PDF-note"), nil
}

type lockerStub struct {
	err      error
	locked   int
	released int
}

func (l *lockerStub) Lock(context.Context, string, time.Duration) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked++
	return func(context.Context) error { l.released++; return nil }, nil
}

func newProducts(store *memstore.Store, renderer *rendererStub) *catalog.ProductUseCase {
	logger := activity.NewLogger(activity.NewRepositoryRecorder(store.Activity()), zerolog.Nop())
	return catalog.NewProductUseCase(store, store.Repos().Products, renderer, logger, nil, zerolog.Nop())
}

func TestProductCreate_CreaInventarioEnCero(t *testing.T) {
	store := memstore.New()
	uc := newProducts(store, nil)

	res, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{
		SKU: " SKU-1 ", Name: "Martillo", Category: "herramientas", Tags: []string{"acero", " ", "acero"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", res.SKU)
	assert.Equal(t, []string{"acero"}, res.Tags)
	assert.Equal(t, entity.ProductActive, res.Status)

	rec, ok := store.Inventory(res.ID)
	require.True(t, ok)
	assert.Equal(t, int64(0), rec.Quantity)
	assert.True(t, rec.AvgCost.IsZero())

	snap := store.Snapshot()
	require.Len(t, snap.Activity, 1)
	assert.Equal(t, entity.EntityProduct, snap.Activity[0].Entity)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	store := memstore.New()
	store.SeedProduct(entity.Product{ID: uuid.NewString(), SKU: "SKU-1", Name: "A", Status: entity.ProductArchived}, entity.InventoryRecord{})
	uc := newProducts(store, nil)

	_, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{SKU: "SKU-1", Name: "B"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "SKU ya existe: SKU-1")
	assert.Equal(t, 1, store.Snapshot().Products)
}

func TestProductCreate_Validacion(t *testing.T) {
	uc := newProducts(memstore.New(), nil)
	_, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{SKU: "X", LowStockThreshold: -1, Name: "n"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "low_stock_threshold", ve.Field)
}

func TestProductArchiveYDelete(t *testing.T) {
	store := memstore.New()
	id := uuid.NewString()
	store.SeedProduct(entity.Product{ID: id, SKU: "SKU-1", Name: "A"}, entity.InventoryRecord{Quantity: 3, AvgCost: decimal.NewFromInt(2)})
	uc := newProducts(store, nil)
	ctx := context.Background()

	require.NoError(t, uc.Archive(ctx, admin, id))
	p, _ := store.Product(id)
	assert.Equal(t, entity.ProductArchived, p.Status)
	rec, _ := store.Inventory(id)
	assert.Equal(t, int64(3), rec.Quantity, "archivar no toca el stock")

	require.ErrorIs(t, uc.Archive(ctx, admin, id), domain.ErrNotFound, "ya archivado")
	require.NoError(t, uc.Delete(ctx, admin, id), "el borrado lógico no exige estado activo")
	require.ErrorIs(t, uc.Delete(ctx, admin, uuid.NewString()), domain.ErrNotFound)

	_, err := uc.GetByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_SoloActivos(t *testing.T) {
	store := memstore.New()
	id := uuid.NewString()
	store.SeedProduct(entity.Product{ID: id, SKU: "SKU-1", Name: "A"}, entity.InventoryRecord{})
	uc := newProducts(store, nil)
	ctx := context.Background()

	res, err := uc.Update(ctx, admin, id, dto.UpdateProductRequest{Name: "Nuevo", Category: "c", LowStockThreshold: 4})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", res.Name)
	assert.Equal(t, "SKU-1", res.SKU)
	assert.Equal(t, 4, res.LowStockThreshold)

	require.NoError(t, uc.Archive(ctx, admin, id))
	_, err = uc.Update(ctx, admin, id, dto.UpdateProductRequest{Name: "Otro"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductListMetaYLookup(t *testing.T) {
	store := memstore.New()
	store.SeedProduct(entity.Product{ID: uuid.NewString(), SKU: "A-1", Name: "Tornillo", Category: "ferretería", Tags: []string{"metal"}}, entity.InventoryRecord{})
	store.SeedProduct(entity.Product{ID: uuid.NewString(), SKU: "B-1", Name: "Pintura", Category: "acabados", Tags: []string{"interior"}}, entity.InventoryRecord{})
	store.SeedProduct(entity.Product{ID: uuid.NewString(), SKU: "C-1", Name: "Viejo", Category: "obsoleto", Status: entity.ProductArchived}, entity.InventoryRecord{})
	uc := newProducts(store, nil)
	ctx := context.Background()

	all, err := uc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTag, err := uc.List(ctx, dto.ProductFilter{Tag: "MET"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "A-1", byTag[0].SKU)

	meta, err := uc.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acabados", "ferretería"}, meta.Categories)
	assert.Equal(t, []string{"interior", "metal"}, meta.Tags)

	found, err := uc.LookupBySKU(ctx, "B-1")
	require.NoError(t, err)
	assert.Equal(t, "Pintura", found.Name)

	_, err = uc.LookupBySKU(ctx, "C-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.LookupBySKU(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductLabel(t *testing.T) {
	store := memstore.New()
	id := uuid.NewString()
	store.SeedProduct(entity.Product{ID: id, SKU: "SKU-9", Name: "A"}, entity.InventoryRecord{})
	renderer := &rendererStub{}
	uc := newProducts(store, renderer)

	pdf, err := uc.Label(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-label", string(pdf))
	assert.Equal(t, "SKU-9", renderer.sku)
}

func TestSupplierCreateYList(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewSupplierUseCase(store.Repos().Suppliers, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateSupplierRequest{Name: "Proveedor"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "contact_person", ve.Field)

	res, err := uc.Create(ctx, admin, dto.CreateSupplierRequest{Name: "Proveedor", ContactPerson: "Luis", Email: "luis@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "active", res.Status)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
}

// ── Importación de catálogo ──────────────────────────────────────────────────

func catalogRow(line int, sku, name string) tabular.Row {
	return tabular.Row{Line: line, Values: map[string]string{
		"sku":                 sku,
		"name":                name,
		"category":            "general",
		"tags":                "a|b| |a",
		"low_stock_threshold": "3",
	}}
}

func TestBulkImportCatalog_CreaYReactiva(t *testing.T) {
	store := memstore.New()
	archivedID := uuid.NewString()
	store.SeedProduct(
		entity.Product{ID: archivedID, SKU: "OLD-1", Name: "Antiguo", Status: entity.ProductArchived},
		entity.InventoryRecord{Quantity: 7, AvgCost: decimal.NewFromInt(4)},
	)
	locker := &lockerStub{}
	uc := catalog.NewImportUseCase(store, locker, nil, nil, zerolog.Nop())

	res, err := uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{
		catalogRow(2, "NEW-1", "Nuevo"),
		catalogRow(3, "OLD-1", "Renovado"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Reactivated)
	assert.Equal(t, 1, locker.locked)
	assert.Equal(t, 1, locker.released)

	old, _ := store.Product(archivedID)
	assert.Equal(t, entity.ProductActive, old.Status)
	assert.Equal(t, "Renovado", old.Name)
	assert.Equal(t, []string{"a", "b"}, old.Tags)
	rec, _ := store.Inventory(archivedID)
	assert.Equal(t, int64(7), rec.Quantity, "reactivar no toca el stock")
	assert.True(t, decimal.NewFromInt(4).Equal(rec.AvgCost))

	created, ok := store.ProductBySKU("NEW-1")
	require.True(t, ok)
	assert.Equal(t, 3, created.LowStockThreshold)
	_, ok = store.Inventory(created.ID)
	assert.True(t, ok)
}

func TestBulkImportCatalog_SKUActivoRevierteElArchivo(t *testing.T) {
	store := memstore.New()
	store.SeedProduct(entity.Product{ID: uuid.NewString(), SKU: "DUP-1", Name: "Activo"}, entity.InventoryRecord{})
	uc := catalog.NewImportUseCase(store, nil, nil, nil, zerolog.Nop())

	_, err := uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{
		catalogRow(2, "NEW-1", "Nuevo"),
		catalogRow(3, "DUP-1", "Otro"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Contains(t, err.Error(), "SKU ya existe: DUP-1")

	_, ok := store.ProductBySKU("NEW-1")
	assert.False(t, ok, "la fila 2 no debe quedar aplicada")
}

func TestBulkImportCatalog_SKURepetidoEnElArchivo(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewImportUseCase(store, nil, nil, nil, zerolog.Nop())

	_, err := uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{
		catalogRow(2, "X-1", "Uno"),
		catalogRow(3, "X-1", "Dos"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 0, store.Snapshot().Products)
}

func TestBulkImportCatalog_EsquemaInvalido(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewImportUseCase(store, nil, nil, nil, zerolog.Nop())

	bad := catalogRow(4, "X-1", "")
	_, err := uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{catalogRow(2, "A", "a"), bad})
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Row)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = catalogRow(5, "X-1", "x")
	bad.Values["low_stock_threshold"] = "muchos"
	_, err = uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Snapshot().Products)
}

func TestBulkImportCatalog_CandadoOcupado(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewImportUseCase(store, &lockerStub{err: domain.ErrConflict}, nil, nil, zerolog.Nop())

	_, err := uc.BulkImportCatalog(context.Background(), admin, []tabular.Row{catalogRow(2, "A", "a")})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, store.Snapshot().Products)
}

func TestBulkImportCatalog_ArchivoVacio(t *testing.T) {
	uc := catalog.NewImportUseCase(memstore.New(), nil, nil, nil, zerolog.Nop())
	_, err := uc.BulkImportCatalog(context.Background(), admin, nil)
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}
