package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// SalesTotals agregados de órdenes para el tablero.
type SalesTotals struct {
	Revenue       decimal.Decimal // Σ total de ventas completadas
	COGS          decimal.Decimal // Σ cantidad vendida * costo actual del producto
	PurchaseSpend decimal.Decimal // Σ total de compras completadas
	PendingOrders int
}

// DailySales ventas completadas de un día (fecha de creación de la orden, UTC).
type DailySales struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int
}

// CategoryStat agregado del catálogo por categoría.
type CategoryStat struct {
	Category   string
	Products   int
	TotalUnits int
	TotalValue decimal.Decimal
	AvgMargin  decimal.Decimal
}

// TopProduct producto más vendido en ventas completadas.
type TopProduct struct {
	ProductID    string
	ProductName  string
	SKU          string
	TotalSold    int
	TotalRevenue decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el tablero.
type DashboardRepository interface {
	SalesTotals(ctx context.Context) (SalesTotals, error)
	// DailySales agrupa por día las ventas completadas creadas desde since.
	DailySales(ctx context.Context, since time.Time) ([]DailySales, error)
	// CategoryBreakdown ordenado por TotalValue descendente.
	CategoryBreakdown(ctx context.Context) ([]CategoryStat, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	// AlertProducts devuelve los productos con quantity <= min_stock, los agotados primero.
	AlertProducts(ctx context.Context) ([]*entity.Product, error)
}
