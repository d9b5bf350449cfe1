package dto

import "time"

// AdjustStockRequest body para PATCH /api/products/:id/adjust-stock.
type AdjustStockRequest struct {
	Adjustment int    `json:"adjustment"` // positivo entrada, negativo salida; distinto de 0
	Reason     string `json:"reason"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Delta         int       `json:"delta"`
	QuantityAfter int       `json:"quantity_after"`
	Reason        string    `json:"reason"`
	Note          string    `json:"note,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockMovementListResponse historial paginado de movimientos de un producto.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
