// Package analytics contiene los casos de uso de solo lectura del tablero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const (
	defaultTrendDays   = 7
	maxTrendDays       = 90
	defaultTopProducts = 5
	maxTopProducts     = 20
)

// DashboardUseCase arma los indicadores del tablero.
//
// stats y category-breakdown pasan por la caché; el resto se calcula en cada llamada.
type DashboardUseCase struct {
	products  repository.ProductRepository
	dashboard repository.DashboardRepository
	cache     ports.Cache
	ttl       time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	dashboard repository.DashboardRepository,
	cache ports.Cache,
	ttl time.Duration,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		products:  products,
		dashboard: dashboard,
		cache:     cache,
		ttl:       ttl,
		log:       log.Component("dashboard"),
		now:       time.Now,
	}
}

// Stats resumen general: catálogo y órdenes en paralelo.
func (uc *DashboardUseCase) Stats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	var out dto.DashboardStatsDTO
	if uc.cached(ctx, ports.CacheKeyDashboardStats, &out) {
		return &out, nil
	}

	var (
		catalog repository.CatalogStats
		sales   repository.SalesTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = uc.products.Stats(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: catálogo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sales, err = uc.dashboard.SalesTotals(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: ventas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out = dto.DashboardStatsDTO{
		TotalProducts:   catalog.Total,
		InventoryValue:  catalog.TotalValue.Round(2),
		TotalRevenue:    sales.Revenue.Round(2),
		GrossProfit:     sales.Revenue.Sub(sales.COGS).Round(2),
		TotalSpend:      sales.PurchaseSpend.Round(2),
		PendingOrders:   sales.PendingOrders,
		LowStockCount:   catalog.LowStock,
		OutOfStockCount: catalog.OutOfStock,
		TotalAlerts:     catalog.LowStock + catalog.OutOfStock,
	}
	uc.store(ctx, ports.CacheKeyDashboardStats, out)
	return &out, nil
}

// SalesTrend ventas completadas por día de los últimos days días (hoy incluido).
// days fuera de [1, 90] se ajusta; 0 usa 7. Los días sin ventas van en cero.
func (uc *DashboardUseCase) SalesTrend(ctx context.Context, days int) ([]dto.SalesTrendPointDTO, error) {
	days = clamp(days, defaultTrendDays, maxTrendDays)
	today := truncateDay(uc.now().UTC())
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := uc.dashboard.DailySales(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard: tendencia: %w", err)
	}
	byDay := make(map[string]repository.DailySales, len(rows))
	for _, r := range rows {
		byDay[r.Date.UTC().Format(time.DateOnly)] = r
	}
	out := make([]dto.SalesTrendPointDTO, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		point := dto.SalesTrendPointDTO{Date: key}
		if r, ok := byDay[key]; ok {
			point.Revenue = r.Revenue.Round(2)
			point.Orders = r.Orders
		}
		out = append(out, point)
	}
	return out, nil
}

// CategoryBreakdown agregado por categoría, mayor valor primero.
func (uc *DashboardUseCase) CategoryBreakdown(ctx context.Context) ([]dto.CategoryBreakdownDTO, error) {
	var out []dto.CategoryBreakdownDTO
	if uc.cached(ctx, ports.CacheKeyCategoryBreakdown, &out) {
		return out, nil
	}
	rows, err := uc.dashboard.CategoryBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: categorías: %w", err)
	}
	out = make([]dto.CategoryBreakdownDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CategoryBreakdownDTO{
			Category:   r.Category,
			Products:   r.Products,
			TotalUnits: r.TotalUnits,
			TotalValue: r.TotalValue.Round(2),
			AvgMargin:  r.AvgMargin.Round(2),
		})
	}
	uc.store(ctx, ports.CacheKeyCategoryBreakdown, out)
	return out, nil
}

// TopProducts productos más vendidos por unidades. limit por defecto 5, máximo 20.
func (uc *DashboardUseCase) TopProducts(ctx context.Context, limit int) ([]dto.TopProductDTO, error) {
	limit = clamp(limit, defaultTopProducts, maxTopProducts)
	rows, err := uc.dashboard.TopProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", err)
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			SKU:          r.SKU,
			TotalSold:    r.TotalSold,
			TotalRevenue: r.TotalRevenue.Round(2),
		})
	}
	return out, nil
}

// LowStock separa los productos en alerta entre agotados y con stock bajo.
func (uc *DashboardUseCase) LowStock(ctx context.Context) (*dto.LowStockDTO, error) {
	products, err := uc.dashboard.AlertProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: alertas: %w", err)
	}
	out := &dto.LowStockDTO{
		OutOfStock: []dto.ProductResponse{},
		LowStock:   []dto.ProductResponse{},
	}
	for _, p := range products {
		r := usecase.ToProductResponse(p)
		switch r.StockStatus {
		case entity.StockStatusOut:
			out.OutOfStock = append(out.OutOfStock, *r)
		case entity.StockStatusLow:
			out.LowStock = append(out.LowStock, *r)
		}
	}
	return out, nil
}

func (uc *DashboardUseCase) cached(ctx context.Context, key string, dest any) bool {
	hit, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	return hit
}

func (uc *DashboardUseCase) store(ctx context.Context, key string, value any) {
	if err := uc.cache.Set(ctx, key, value, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}

func clamp(v, def, max int) int {
	switch {
	case v <= 0:
		return def
	case v > max:
		return max
	}
	return v
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
