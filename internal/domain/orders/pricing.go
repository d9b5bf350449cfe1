package orders

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Prefijos de numeración por tipo de orden.
const (
	PrefixSale     = "SAL"
	PrefixPurchase = "PUR"
)

// LineSubtotal = round2(cantidad * precio unitario).
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeTotals calcula subtotal y total de la orden.
// subtotal = round2(Σ item.Subtotal); total = round2(subtotal + tax).
func ComputeTotals(items []entity.OrderItem, tax decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	subtotal = subtotal.Round(2)
	total = subtotal.Add(tax).Round(2)
	return subtotal, total
}

// Prefix devuelve el prefijo de numeración del tipo de orden.
func Prefix(orderType string) (string, error) {
	switch orderType {
	case entity.OrderTypeSale:
		return PrefixSale, nil
	case entity.OrderTypePurchase:
		return PrefixPurchase, nil
	}
	return "", fmt.Errorf("tipo de orden desconocido %q", orderType)
}

// FormatOrderNumber arma el número visible: SAL-00001, PUR-00042.
func FormatOrderNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}
