package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden.
const (
	OrderTypeSale     = "sale"
	OrderTypePurchase = "purchase"
)

// Estados de orden. completed y cancelled son terminales.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order representa una orden de venta o de compra.
// Items, Subtotal, Tax y Total se fijan al crear la orden y no cambian después.
type Order struct {
	ID           string
	OrderNumber  string // SAL-00001 / PUR-00001
	Type         string
	Status       string
	Counterparty string // cliente (venta) o proveedor (compra)
	Items        []OrderItem
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	CreatedBy    string
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem es la foto de un producto al momento de crear la orden.
// No se ve afectada por ediciones o borrados posteriores del producto.
type OrderItem struct {
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// IsTerminal indica si la orden ya no admite transiciones.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
