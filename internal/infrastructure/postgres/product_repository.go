package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, description, quantity, min_stock, unit,
	selling_price, cost_price, supplier, location, created_by, created_at, updated_at`

// productSortColumns traduce los campos públicos de orden a columnas.
var productSortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"name":         "name",
	"sku":          "sku",
	"category":     "category",
	"quantity":     "quantity",
	"sellingPrice": "selling_price",
	"costPrice":    "cost_price",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Description, p.Quantity, p.MinStock, p.Unit,
		p.SellingPrice, p.CostPrice, p.Supplier, p.Location, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU normalizado.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente. No toca quantity (se maneja vía AdjustQuantity).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, category = $4, description = $5, min_stock = $6, unit = $7,
			selling_price = $8, cost_price = $9, supplier = $10, location = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Description, p.MinStock, p.Unit,
		p.SellingPrice, p.CostPrice, p.Supplier, p.Location, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantity suma delta en una sola sentencia condicional: la comprobación y la escritura
// son atómicas, y dentro de una tx la fila queda bloqueada hasta el commit.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error) {
	query := `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, delta))
	switch {
	case err == nil:
		return p, nil
	case isInvalidText(err):
		return nil, domain.ErrNotFound
	case isCheckViolation(err):
		return nil, domain.ErrNegativeStock
	case isOutOfRange(err):
		return nil, domain.Invalid("la cantidad superaría %d", entity.MaxQuantity)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("adjust product quantity: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrNegativeStock
}

// List lista productos con filtros, orden y paginación. Devuelve también el total filtrado.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var w whereBuilder
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Search != "" {
		ph := w.next(likePattern(f.Search))
		w.conds = append(w.conds, fmt.Sprintf("(name ILIKE %[1]s OR sku ILIKE %[1]s OR supplier ILIKE %[1]s)", ph))
	}
	switch f.StockStatus {
	case entity.StockStatusOut:
		w.add("quantity = 0")
	case entity.StockStatusLow:
		w.add("quantity > 0 AND quantity <= min_stock")
	case entity.StockStatusIn:
		w.add("quantity > min_stock")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}
	args := append([]any{}, w.args...)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		productColumns, w.sql(), col, dir, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats resumen del catálogo completo.
func (r *ProductRepo) Stats(ctx context.Context) (repository.CatalogStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE quantity > min_stock),
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity <= min_stock),
			COUNT(*) FILTER (WHERE quantity = 0),
			COALESCE(SUM(quantity * cost_price), 0)
		FROM products`
	var s repository.CatalogStats
	if err := r.q.QueryRow(ctx, query).Scan(&s.Total, &s.InStock, &s.LowStock, &s.OutOfStock, &s.TotalValue); err != nil {
		return s, fmt.Errorf("product stats: %w", err)
	}
	return s, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Description, &p.Quantity, &p.MinStock, &p.Unit,
		&p.SellingPrice, &p.CostPrice, &p.Supplier, &p.Location, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return list, nil
}
