package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Categorías válidas de producto.
const (
	CategoryElectronics  = "Electronics"
	CategoryStationery   = "Stationery"
	CategoryFurniture    = "Furniture"
	CategoryClothing     = "Clothing"
	CategoryFoodBeverage = "Food & Beverage"
	CategoryAccessories  = "Accessories"
	CategoryStorage      = "Storage"
	CategoryOffice       = "Office"
	CategoryOther        = "Other"
	DefaultMinStock      = 5
	DefaultUnit          = "pcs"

	// MaxQuantity tope de cantidades y ajustes: las columnas de stock son INTEGER.
	MaxQuantity = math.MaxInt32
)

// Categories lista el catálogo fijo de categorías en orden de presentación.
var Categories = []string{
	CategoryElectronics, CategoryStationery, CategoryFurniture, CategoryClothing,
	CategoryFoodBeverage, CategoryAccessories, CategoryStorage, CategoryOffice, CategoryOther,
}

// Estados de stock derivados (nunca se persisten).
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// Product representa un producto del catálogo.
// Quantity solo cambia vía ProductRepository.AdjustQuantity (ajustes manuales y liquidación de órdenes).
type Product struct {
	ID           string
	SKU          string // único, normalizado en mayúsculas
	Name         string
	Category     string
	Description  string
	Quantity     int
	MinStock     int
	Unit         string
	SellingPrice decimal.Decimal
	CostPrice    decimal.Decimal
	Supplier     string
	Location     string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidCategory informa si c pertenece al catálogo fijo.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
