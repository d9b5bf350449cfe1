package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalProducts   int             `json:"total_products"`
	InventoryValue  decimal.Decimal `json:"inventory_value"` // Σ quantity * cost_price
	TotalRevenue    decimal.Decimal `json:"total_revenue"`   // ventas completadas
	GrossProfit     decimal.Decimal `json:"gross_profit"`    // revenue - COGS al costo actual
	TotalSpend      decimal.Decimal `json:"total_spend"`     // compras completadas
	PendingOrders   int             `json:"pending_orders"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalAlerts     int             `json:"total_alerts"`
}

// SalesTrendPointDTO ventas completadas de un día. Los días sin ventas van en cero.
type SalesTrendPointDTO struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// CategoryBreakdownDTO agregado del catálogo por categoría.
type CategoryBreakdownDTO struct {
	Category   string          `json:"category"`
	Products   int             `json:"products"`
	TotalUnits int             `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"`
	AvgMargin  decimal.Decimal `json:"avg_margin"`
}

// TopProductDTO producto más vendido (ventas completadas).
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// LowStockDTO respuesta de GET /api/dashboard/low-stock.
type LowStockDTO struct {
	OutOfStock []ProductResponse `json:"out_of_stock"`
	LowStock   []ProductResponse `json:"low_stock"`
}
