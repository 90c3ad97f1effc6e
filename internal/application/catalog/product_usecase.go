package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Cantidad y costo promedio solo cambian vía movimientos.
type ProductUseCase struct {
	txRunner    ports.TxRunner
	repo        repository.ProductRepository
	renderer    ports.DocumentRenderer
	activity    *activity.Logger
	invalidator ports.CacheInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. renderer e invalidator pueden ser nil.
func NewProductUseCase(
	txRunner ports.TxRunner,
	repo repository.ProductRepository,
	renderer ports.DocumentRenderer,
	activityLogger *activity.Logger,
	invalidator ports.CacheInvalidator,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:    txRunner,
		repo:        repo,
		renderer:    renderer,
		activity:    activityLogger,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// Create crea el producto y su registro de inventario (0 unidades, costo 0) en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:                uuid.NewString(),
		SKU:               strings.TrimSpace(in.SKU),
		Name:              strings.TrimSpace(in.Name),
		Category:          strings.TrimSpace(in.Category),
		Description:       in.Description,
		Tags:              normalizeTags(in.Tags),
		LowStockThreshold: in.LowStockThreshold,
		Status:            entity.ProductActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		existing, err := r.Products.GetBySKU(ctx, product.SKU)
		if err != nil {
			return fmt.Errorf("buscar sku: %w", err)
		}
		if existing != nil {
			return skuExists(product.SKU)
		}
		return createWithInventory(ctx, r, product)
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, entity.ActionCreate, product.ID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto activo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update sobrescribe los campos descriptivos de un producto activo.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = in.Description
	p.Tags = normalizeTags(in.Tags)
	p.LowStockThreshold = in.LowStockThreshold
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, entity.ActionUpdate, p.ID)
	return toProductResponse(p), nil
}

// Archive archiva un producto activo. Stock, documentos y auditoría se conservan.
func (uc *ProductUseCase) Archive(ctx context.Context, actor entity.Actor, id string) error {
	return uc.archive(ctx, actor, id, true)
}

// Delete es el borrado lógico del administrador: archiva sin importar el estado actual.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.archive(ctx, actor, id, false)
}

func (uc *ProductUseCase) archive(ctx context.Context, actor entity.Actor, id string, onlyActive bool) error {
	changed, err := uc.repo.Archive(ctx, id, onlyActive)
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotFound
	}
	uc.afterCommit(ctx, actor, entity.ActionArchive, id)
	return nil
}

// List productos activos filtrados por nombre/descripción, SKU, categoría y etiqueta.
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductFilter) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListActive(ctx, repository.ProductFilter{
		Query:    strings.TrimSpace(f.Query),
		SKU:      strings.TrimSpace(f.SKU),
		Category: strings.TrimSpace(f.Category),
		Tag:      strings.TrimSpace(f.Tag),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Meta categorías y etiquetas distintas de los productos activos.
func (uc *ProductUseCase) Meta(ctx context.Context) (*dto.ProductMetaResponse, error) {
	cats, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := uc.repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return &dto.ProductMetaResponse{Categories: cats, Tags: tags}, nil
}

// LookupBySKU búsqueda exacta por SKU, usada por los lectores de código de barras.
func (uc *ProductUseCase) LookupBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.Invalid("sku", "es requerido")
	}
	p, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Label genera la etiqueta PDF del producto.
func (uc *ProductUseCase) Label(ctx context.Context, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	p, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.renderer.ProductLabel(ctx, p)
}

func (uc *ProductUseCase) active(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *ProductUseCase) afterCommit(ctx context.Context, actor entity.Actor, action, productID string) {
	uc.activity.Log(ctx, actor, action, entity.EntityProduct, productID)
	invalidate(ctx, uc.invalidator, uc.log)
}

// ── helpers compartidos ──────────────────────────────────────────────────────

// createWithInventory inserta el producto y su registro de inventario vacío.
func createWithInventory(ctx context.Context, r ports.TxRepos, p *entity.Product) error {
	if err := r.Products.Create(ctx, p); err != nil {
		return fmt.Errorf("crear producto: %w", err)
	}
	rec := &entity.InventoryRecord{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Quantity:  0,
		AvgCost:   decimal.Zero,
		UpdatedAt: p.CreatedAt,
	}
	if err := r.Inventory.Create(ctx, rec); err != nil {
		return fmt.Errorf("crear inventario: %w", err)
	}
	return nil
}

func skuExists(sku string) error {
	return fmt.Errorf("%w: SKU ya existe: %s", domain.ErrDuplicate, sku)
}

func invalidate(ctx context.Context, inv ports.CacheInvalidator, log zerolog.Logger) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Category:          p.Category,
		Description:       p.Description,
		Tags:              tags,
		LowStockThreshold: p.LowStockThreshold,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
