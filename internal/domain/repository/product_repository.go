package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Campos permitidos para ordenar el listado de productos.
var ProductSortFields = map[string]bool{
	"createdAt": true, "name": true, "sku": true, "category": true,
	"quantity": true, "sellingPrice": true, "costPrice": true, "updatedAt": true,
}

// ProductFilter filtros y paginación del listado de productos.
type ProductFilter struct {
	Category    string
	Search      string // nombre, sku o proveedor
	StockStatus string // in_stock | low_stock | out_of_stock
	SortBy      string // ver ProductSortFields
	SortDir     string // asc | desc
	Limit       int
	Offset      int
}

// CatalogStats resumen del catálogo completo (no depende del filtro).
type CatalogStats struct {
	Total      int
	InStock    int
	LowStock   int
	OutOfStock int
	TotalValue decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update no toca Quantity. ErrNotFound si no existe, ErrDuplicate si el SKU choca.
	Update(ctx context.Context, product *entity.Product) error
	// AdjustQuantity suma delta a la cantidad en una sola operación atómica.
	// ErrNotFound si el producto no existe; ErrNegativeStock si el resultado sería < 0.
	AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	Stats(ctx context.Context) (CatalogStats, error)
	Delete(ctx context.Context, id string) error
}
