package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, description, tags, low_stock_threshold, status, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Un SKU repetido (activo o archivado) devuelve ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Description, tagsOrEmpty(p.Tags),
		p.LowStockThreshold, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return mapErr("insert product", err)
}

// GetByID obtiene un producto por ID, en cualquier estado.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU exacto, en cualquier estado.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if code := pgCode(err); code == codeInvalidTextRepr {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update sobrescribe los campos descriptivos y el estado. El SKU y el stock no cambian aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, description = $4, tags = $5, low_stock_threshold = $6,
		    status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Description, tagsOrEmpty(p.Tags), p.LowStockThreshold, p.Status, p.UpdatedAt,
	)
	return mapErr("update product", err)
}

// Archive marca el producto como archivado. Devuelve false si ninguna fila cambió.
func (r *ProductRepo) Archive(ctx context.Context, id string, onlyActive bool) (bool, error) {
	query := `UPDATE products SET status = 'archived', updated_at = now() WHERE id = $1`
	if onlyActive {
		query += ` AND status = 'active'`
	}
	cmd, err := r.q.Exec(ctx, query, id)
	if err != nil {
		if pgCode(err) == codeInvalidTextRepr {
			return false, nil
		}
		return false, mapErr("archive product", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListActive lista los productos activos con filtros de coincidencia parcial (ILIKE), ordenados por nombre.
func (r *ProductRepo) ListActive(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where = []string{`status = 'active'`}
		args  []any
	)
	add := func(cond, value string) {
		args = append(args, "%"+escapeLike(value)+"%")
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Query != "" {
		add(`(name ILIKE $%[1]d OR description ILIKE $%[1]d)`, f.Query)
	}
	if f.SKU != "" {
		add(`sku ILIKE $%d`, f.SKU)
	}
	if f.Category != "" {
		add(`category ILIKE $%d`, f.Category)
	}
	if f.Tag != "" {
		add(`EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $%d)`, f.Tag)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Categories categorías distintas de productos activos.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, "list categories", `
		SELECT DISTINCT category FROM products
		WHERE status = 'active' AND category <> ''
		ORDER BY category`)
}

// Tags etiquetas distintas de productos activos.
func (r *ProductRepo) Tags(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, "list tags", `
		SELECT DISTINCT t FROM products, unnest(tags) AS t
		WHERE status = 'active' AND t <> ''
		ORDER BY t`)
}

func (r *ProductRepo) listStrings(ctx context.Context, op, query string) ([]string, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Description, &p.Tags,
		&p.LowStockThreshold, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// escapeLike escapa los comodines de LIKE en la entrada del usuario.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
