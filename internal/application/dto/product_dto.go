package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	MinStock     *int            `json:"min_stock"` // nil → 5
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Supplier     string          `json:"supplier"`
	Location     string          `json:"location"`
}

// UpdateProductRequest entrada para actualizar un producto. La cantidad solo cambia vía ajuste de stock.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
	MinStock     *int             `json:"min_stock"`
	Unit         *string          `json:"unit"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	Supplier     *string          `json:"supplier"`
	Location     *string          `json:"location"`
}

// ProductFilterRequest query string de GET /api/products.
type ProductFilterRequest struct {
	PageRequest
	Category string `query:"category"`
	Search   string `query:"search"`
	Status   string `query:"status"`   // in_stock | low_stock | out_of_stock
	SortBy   string `query:"sort_by"`  // createdAt, name, sku, quantity, ...
	SortDir  string `query:"sort_dir"` // asc | desc
}

// ProductResponse salida de un producto con los campos derivados.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	MinStock     int             `json:"min_stock"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Supplier     string          `json:"supplier"`
	Location     string          `json:"location"`
	StockStatus  string          `json:"stock_status"`
	Margin       decimal.Decimal `json:"margin"`      // % sobre precio de venta
	StockValue   decimal.Decimal `json:"stock_value"` // quantity * cost_price
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CatalogStatsDTO resumen del catálogo que acompaña al listado.
type CatalogStatsDTO struct {
	Total      int             `json:"total"`
	InStock    int             `json:"in_stock"`
	LowStock   int             `json:"low_stock"`
	OutOfStock int             `json:"out_of_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
	Stats CatalogStatsDTO   `json:"stats"`
}
