package orders

import (
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// IsValidType informa si t es sale o purchase.
func IsValidType(t string) bool {
	return t == entity.OrderTypeSale || t == entity.OrderTypePurchase
}

// IsValidStatus informa si s es un estado conocido.
func IsValidStatus(s string) bool {
	return s == entity.OrderStatusPending || s == entity.OrderStatusCompleted || s == entity.OrderStatusCancelled
}

// CheckTransition valida current → next. noop es true para pending → pending.
// Los estados completed y cancelled son terminales.
func CheckTransition(current, next string) (noop bool, err error) {
	if !IsValidStatus(next) {
		return false, domain.Invalid("estado %q no soportado", next)
	}
	switch current {
	case entity.OrderStatusCompleted:
		return false, domain.ErrOrderCompleted
	case entity.OrderStatusCancelled:
		return false, domain.ErrOrderCancelled
	case entity.OrderStatusPending:
		return next == entity.OrderStatusPending, nil
	}
	return false, domain.ErrInvalidState
}

// ProductDelta es el cambio neto de stock que una orden aplica a un producto.
type ProductDelta struct {
	ProductID   string
	ProductName string
	SKU         string
	Requested   int // unidades totales de la orden para el producto
	Delta       int // -Requested en ventas, +Requested en compras
}

// Deltas agrega las líneas por producto y las devuelve ordenadas por ProductID.
// El orden fijo evita interbloqueos entre liquidaciones concurrentes.
func Deltas(o *entity.Order) []ProductDelta {
	sign := 1
	if o.Type == entity.OrderTypeSale {
		sign = -1
	}
	idx := make(map[string]int, len(o.Items))
	out := make([]ProductDelta, 0, len(o.Items))
	for _, it := range o.Items {
		i, ok := idx[it.ProductID]
		if !ok {
			idx[it.ProductID] = len(out)
			out = append(out, ProductDelta{ProductID: it.ProductID, ProductName: it.ProductName, SKU: it.SKU})
			i = len(out) - 1
		}
		out[i].Requested += it.Quantity
	}
	for i := range out {
		out[i].Delta = sign * out[i].Requested
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ProductID < out[b].ProductID })
	return out
}

// MovementReason devuelve el motivo de movimiento para el tipo de orden.
func MovementReason(orderType string) string {
	if orderType == entity.OrderTypeSale {
		return entity.MovementReasonSale
	}
	return entity.MovementReasonPurchase
}
