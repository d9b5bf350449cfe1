package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// NormalizeSKU recorta espacios y pasa el SKU a mayúsculas (Unicode).
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}

// StockStatus clasifica la existencia de un producto.
// quantity == 0 → out_of_stock; quantity <= minStock → low_stock; resto → in_stock.
func StockStatus(quantity, minStock int) string {
	switch {
	case quantity <= 0:
		return entity.StockStatusOut
	case quantity <= minStock:
		return entity.StockStatusLow
	default:
		return entity.StockStatusIn
	}
}

// IsAlert indica si el producto debe aparecer en las alertas de stock.
func IsAlert(quantity, minStock int) bool {
	return StockStatus(quantity, minStock) != entity.StockStatusIn
}

// Margin = (venta - costo) / venta * 100, redondeado a 2 decimales. 0 si venta es 0.
func Margin(sellingPrice, costPrice decimal.Decimal) decimal.Decimal {
	if sellingPrice.IsZero() {
		return decimal.Zero
	}
	return sellingPrice.Sub(costPrice).Div(sellingPrice).Mul(hundred).Round(2)
}

// StockValue = cantidad * costo, redondeado a 2 decimales.
func StockValue(quantity int, costPrice decimal.Decimal) decimal.Decimal {
	return costPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
