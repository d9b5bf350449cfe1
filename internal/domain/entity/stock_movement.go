package entity

import "time"

// Motivos de movimiento de stock.
const (
	MovementReasonAdjustment = "manual_adjustment" // ajuste manual desde el catálogo
	MovementReasonSale       = "sale"              // liquidación de orden de venta
	MovementReasonPurchase   = "purchase"          // liquidación de orden de compra
)

// StockMovement registra cada cambio de cantidad aplicado a un producto.
type StockMovement struct {
	ID            string
	ProductID     string
	Delta         int // positivo entrada, negativo salida
	QuantityAfter int
	Reason        string
	Note          string // texto libre del ajuste manual
	OrderID       string // vacío en ajustes manuales
	CreatedBy     string
	CreatedAt     time.Time
}
