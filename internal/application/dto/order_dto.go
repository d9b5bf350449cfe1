package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada al crear una orden.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Type         string             `json:"type"` // sale | purchase
	Counterparty string             `json:"counterparty"`
	Items        []OrderItemRequest `json:"items"`
	Tax          decimal.Decimal    `json:"tax"`
	Notes        string             `json:"notes"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderFilterRequest query string de GET /api/orders.
type OrderFilterRequest struct {
	PageRequest
	Type   string `query:"type"`
	Status string `query:"status"`
	Search string `query:"search"`
}

// OrderItemResponse línea de la orden (foto tomada al crearla).
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	Type         string              `json:"type"`
	Status       string              `json:"status"`
	Counterparty string              `json:"counterparty"`
	Items        []OrderItemResponse `json:"items"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	Total        decimal.Decimal     `json:"total"`
	Notes        string              `json:"notes"`
	CreatedBy    string              `json:"created_by"`
	CompletedAt  *time.Time          `json:"completed_at"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
