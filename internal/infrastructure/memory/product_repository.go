package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s session
}

// NewProductRepository construye el repositorio fuera de transacción.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{s: session{store: store}}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lock()()
	st := r.s.store
	if r.findBySKU(product.SKU) != nil {
		return domain.ErrDuplicate
	}
	st.products[product.ID] = copyProduct(product)
	id := product.ID
	r.s.record(func() { delete(st.products, id) })
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock()()
	return copyProduct(r.s.store.products[id]), nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.s.lock()()
	return copyProduct(r.findBySKU(sku)), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lock()()
	st := r.s.store
	current, ok := st.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if other := r.findBySKU(product.SKU); other != nil && other.ID != product.ID {
		return domain.ErrDuplicate
	}
	prev := copyProduct(current)
	next := copyProduct(product)
	next.Quantity = current.Quantity
	next.CreatedAt = current.CreatedAt
	next.CreatedBy = current.CreatedBy
	st.products[product.ID] = next
	r.s.record(func() { st.products[prev.ID] = prev })
	return nil
}

// AdjustQuantity comprueba y escribe bajo el mismo lock: dos ajustes concurrentes nunca
// ven la misma cantidad previa.
func (r *ProductRepo) AdjustQuantity(_ context.Context, id string, delta int) (*entity.Product, error) {
	defer r.s.lock()()
	st := r.s.store
	current, ok := st.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if current.Quantity+delta < 0 {
		return nil, domain.ErrNegativeStock
	}
	if current.Quantity+delta > entity.MaxQuantity {
		return nil, domain.Invalid("la cantidad de %s superaría %d", current.SKU, entity.MaxQuantity)
	}
	prev := copyProduct(current)
	next := copyProduct(current)
	next.Quantity += delta
	next.UpdatedAt = time.Now()
	st.products[id] = next
	r.s.record(func() { st.products[prev.ID] = prev })
	return copyProduct(next), nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	defer r.s.lock()()
	search := strings.ToLower(f.Search)
	var matched []*entity.Product
	for _, p := range r.s.store.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.StockStatus != "" && inventory.StockStatus(p.Quantity, p.MinStock) != f.StockStatus {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Supplier), search) {
			continue
		}
		matched = append(matched, copyProduct(p))
	}
	cmp := productComparator(f.SortBy)
	desc := f.SortDir != "asc"
	sort.Slice(matched, func(i, j int) bool {
		c := cmp(matched[i], matched[j])
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *ProductRepo) Stats(_ context.Context) (repository.CatalogStats, error) {
	defer r.s.lock()()
	stats := repository.CatalogStats{TotalValue: decimal.Zero}
	for _, p := range r.s.store.products {
		stats.Total++
		switch inventory.StockStatus(p.Quantity, p.MinStock) {
		case entity.StockStatusOut:
			stats.OutOfStock++
		case entity.StockStatusLow:
			stats.LowStock++
		default:
			stats.InStock++
		}
		stats.TotalValue = stats.TotalValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return stats, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.store
	prev, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(st.products, id)
	r.s.record(func() { st.products[prev.ID] = prev })
	return nil
}

func (r *ProductRepo) findBySKU(sku string) *entity.Product {
	for _, p := range r.s.store.products {
		if p.SKU == sku {
			return p
		}
	}
	return nil
}

func productComparator(field string) func(a, b *entity.Product) int {
	switch field {
	case "name":
		return func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) }
	case "sku":
		return func(a, b *entity.Product) int { return strings.Compare(a.SKU, b.SKU) }
	case "category":
		return func(a, b *entity.Product) int { return strings.Compare(a.Category, b.Category) }
	case "quantity":
		return func(a, b *entity.Product) int { return a.Quantity - b.Quantity }
	case "sellingPrice":
		return func(a, b *entity.Product) int { return a.SellingPrice.Cmp(b.SellingPrice) }
	case "costPrice":
		return func(a, b *entity.Product) int { return a.CostPrice.Cmp(b.CostPrice) }
	case "updatedAt":
		return func(a, b *entity.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b *entity.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
