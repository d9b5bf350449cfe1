// Package events construye los eventos de dominio que se publican tras cada commit.
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
)

// Tópicos lógicos. El adaptador Kafka les antepone el prefijo configurado.
const (
	TopicOrderCompleted = "orders.completed"
	TopicOrderCancelled = "orders.cancelled"
	TopicLowStock       = "inventory.low-stock"
)

// OrderSettled payload de orders.completed / orders.cancelled.
type OrderSettled struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Items       []SettledItem   `json:"items"`
	ChangedBy   string          `json:"changed_by"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// SettledItem línea resumida del evento.
type SettledItem struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// LowStock payload de inventory.low-stock.
type LowStock struct {
	ProductID   string    `json:"product_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	StockStatus string    `json:"stock_status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OrderStatusChanged arma el evento de una orden que llegó a un estado terminal.
func OrderStatusChanged(o *entity.Order, userID string, at time.Time) ports.Event {
	topic := TopicOrderCancelled
	if o.Status == entity.OrderStatusCompleted {
		topic = TopicOrderCompleted
	}
	items := make([]SettledItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SettledItem{ProductID: it.ProductID, SKU: it.SKU, Quantity: it.Quantity})
	}
	return ports.Event{
		Topic: topic,
		Key:   o.ID,
		Payload: OrderSettled{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Type:        o.Type,
			Status:      o.Status,
			Total:       o.Total,
			Items:       items,
			ChangedBy:   userID,
			OccurredAt:  at,
		},
	}
}

// LowStockAlerts devuelve una alerta por cada producto que quedó bajo o sin stock.
func LowStockAlerts(products []*entity.Product, at time.Time) []ports.Event {
	var out []ports.Event
	for _, p := range products {
		if p == nil || !inventory.IsAlert(p.Quantity, p.MinStock) {
			continue
		}
		out = append(out, ports.Event{
			Topic: TopicLowStock,
			Key:   p.ID,
			Payload: LowStock{
				ProductID:   p.ID,
				SKU:         p.SKU,
				Name:        p.Name,
				Quantity:    p.Quantity,
				MinStock:    p.MinStock,
				StockStatus: inventory.StockStatus(p.Quantity, p.MinStock),
				OccurredAt:  at,
			},
		})
	}
	return out
}
