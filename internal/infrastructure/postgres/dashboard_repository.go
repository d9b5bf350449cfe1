package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// SalesTotals ingresos, COGS al costo actual, gasto en compras y pendientes.
// Las líneas de productos ya borrados no suman COGS.
func (r *DashboardRepo) SalesTotals(ctx context.Context) (repository.SalesTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE type = 'sale' AND status = 'completed'), 0),
			COALESCE((
				SELECT SUM(oi.quantity * p.cost_price)
				FROM order_items oi
				JOIN orders o ON o.id = oi.order_id
				JOIN products p ON p.id = oi.product_id
				WHERE o.type = 'sale' AND o.status = 'completed'
			), 0),
			COALESCE(SUM(total) FILTER (WHERE type = 'purchase' AND status = 'completed'), 0),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM orders`
	var s repository.SalesTotals
	if err := r.q.QueryRow(ctx, query).Scan(&s.Revenue, &s.COGS, &s.PurchaseSpend, &s.PendingOrders); err != nil {
		return s, fmt.Errorf("sales totals: %w", err)
	}
	return s, nil
}

// DailySales ventas completadas agrupadas por día UTC de creación.
func (r *DashboardRepo) DailySales(ctx context.Context, since time.Time) ([]repository.DailySales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, SUM(total), COUNT(*)
		FROM orders
		WHERE type = 'sale' AND status = 'completed' AND created_at >= $1
		GROUP BY day ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer rows.Close()
	var out []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Orders); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CategoryBreakdown agregado del catálogo por categoría.
func (r *DashboardRepo) CategoryBreakdown(ctx context.Context) ([]repository.CategoryStat, error) {
	rows, err := r.q.Query(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * cost_price), 0),
			COALESCE(AVG(CASE WHEN selling_price > 0
				THEN (selling_price - cost_price) / selling_price * 100 ELSE 0 END), 0)
		FROM products
		GROUP BY category
		ORDER BY 4 DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryStat
	for rows.Next() {
		var c repository.CategoryStat
		if err := rows.Scan(&c.Category, &c.Products, &c.TotalUnits, &c.TotalValue, &c.AvgMargin); err != nil {
			return nil, fmt.Errorf("scan category breakdown: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopProducts productos con más unidades vendidas en ventas completadas.
func (r *DashboardRepo) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT oi.product_id, MIN(oi.product_name), MIN(oi.sku), SUM(oi.quantity), SUM(oi.subtotal)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.type = 'sale' AND o.status = 'completed'
		GROUP BY oi.product_id
		ORDER BY 4 DESC, 5 DESC, oi.product_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var out []repository.TopProduct
	for rows.Next() {
		var t repository.TopProduct
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.SKU, &t.TotalSold, &t.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan top products: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AlertProducts productos con quantity <= min_stock, agotados primero.
func (r *DashboardRepo) AlertProducts(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE quantity <= min_stock
		ORDER BY quantity, lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("alert products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}
