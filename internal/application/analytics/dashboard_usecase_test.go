package analytics_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/messaging"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// mapCache guarda JSON igual que la caché Redis.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type dashboardFixture struct {
	store     *memory.Store
	cache     *mapCache
	products  *usecase.ProductUseCase
	orders    *orders.Service
	dashboard *analytics.DashboardUseCase
	ids       map[string]string
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	c := &mapCache{data: map[string][]byte{}}
	log := logger.Nop()
	pub := messaging.NewLogPublisher(log)
	productRepo := memory.NewProductRepository(store)
	f := &dashboardFixture{
		store:     store,
		cache:     c,
		products:  usecase.NewProductUseCase(productRepo, memory.NewStockMovementRepository(store), tx, c, pub, log),
		orders:    orders.NewService(memory.NewOrderRepository(store), tx, c, pub, pdf.NewOrderRenderer("Test"), log),
		dashboard: analytics.NewDashboardUseCase(productRepo, memory.NewDashboardRepository(store), c, time.Minute, log),
		ids:       map[string]string{},
	}

	ctx := context.Background()
	d := decimal.RequireFromString
	for _, in := range []dto.CreateProductRequest{
		{SKU: "A-1", Name: "Monitor", Category: entity.CategoryElectronics, Quantity: 20, SellingPrice: d("10"), CostPrice: d("4")},
		{SKU: "B-1", Name: "Carpeta", Category: entity.CategoryOffice, Quantity: 6, SellingPrice: d("5"), CostPrice: d("2")},
		{SKU: "C-1", Name: "Grapadora", Category: entity.CategoryOffice, Quantity: 0, SellingPrice: d("1"), CostPrice: d("1")},
	} {
		p, err := f.products.Create(ctx, "u-1", in)
		require.NoError(t, err)
		f.ids[p.SKU] = p.ID
	}

	f.completeSale(t, "A-1", 3)
	f.completeSale(t, "B-1", 2)
	_, err := f.orders.CreateOrder(ctx, "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypePurchase, Counterparty: "Proveedor",
		Items: []dto.OrderItemRequest{{ProductID: f.ids["C-1"], Quantity: 1}},
	})
	require.NoError(t, err)
	return f
}

func (f *dashboardFixture) completeSale(t *testing.T, sku string, qty int) {
	t.Helper()
	ctx := context.Background()
	o, err := f.orders.CreateOrder(ctx, "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "Cliente",
		Items: []dto.OrderItemRequest{{ProductID: f.ids[sku], Quantity: qty}},
	})
	require.NoError(t, err)
	_, err = f.orders.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
}

func TestDashboardStats(t *testing.T) {
	f := newDashboardFixture(t)

	s, err := f.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalProducts)
	assert.Equal(t, "76.00", s.InventoryValue.StringFixed(2))
	assert.Equal(t, "40.00", s.TotalRevenue.StringFixed(2))
	assert.Equal(t, "24.00", s.GrossProfit.StringFixed(2))
	assert.True(t, s.TotalSpend.IsZero())
	assert.Equal(t, 1, s.PendingOrders)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.Equal(t, 2, s.TotalAlerts)
}

func TestDashboardStats_CachedUntilInvalidated(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	first, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)

	// cambio directo al repositorio: no invalida
	_, err = memory.NewProductRepository(f.store).AdjustQuantity(ctx, f.ids["A-1"], 10)
	require.NoError(t, err)
	cached, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.InventoryValue.String(), cached.InventoryValue.String())

	// un ajuste por caso de uso sí invalida
	_, err = f.products.AdjustStock(ctx, f.ids["A-1"], "u-1", dto.AdjustStockRequest{Adjustment: 1})
	require.NoError(t, err)
	fresh, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "120.00", fresh.InventoryValue.StringFixed(2))
}

func TestDashboardSalesTrend(t *testing.T) {
	f := newDashboardFixture(t)

	points, err := f.dashboard.SalesTrend(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, points, 7)
	today := points[6]
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), today.Date)
	assert.Equal(t, "40.00", today.Revenue.StringFixed(2))
	assert.Equal(t, 2, today.Orders)
	for _, p := range points[:6] {
		assert.True(t, p.Revenue.IsZero(), p.Date)
		assert.Zero(t, p.Orders)
	}

	long, err := f.dashboard.SalesTrend(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, long, 90)
}

func TestDashboardCategoryBreakdown(t *testing.T) {
	f := newDashboardFixture(t)

	cats, err := f.dashboard.CategoryBreakdown(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, entity.CategoryElectronics, cats[0].Category)
	assert.Equal(t, "68.00", cats[0].TotalValue.StringFixed(2))
	assert.Equal(t, "60.00", cats[0].AvgMargin.StringFixed(2))
	assert.Equal(t, entity.CategoryOffice, cats[1].Category)
	assert.Equal(t, 2, cats[1].Products)
	assert.Equal(t, 4, cats[1].TotalUnits)
	assert.Equal(t, "30.00", cats[1].AvgMargin.StringFixed(2))

	again, err := f.dashboard.CategoryBreakdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(cats), len(again))
}

func TestDashboardTopProductsAndLowStock(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	top, err := f.dashboard.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "A-1", top[0].SKU)
	assert.Equal(t, 3, top[0].TotalSold)
	assert.Equal(t, "30.00", top[0].TotalRevenue.StringFixed(2))

	all, err := f.dashboard.TopProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := f.dashboard.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low.OutOfStock, 1)
	assert.Equal(t, "C-1", low.OutOfStock[0].SKU)
	require.Len(t, low.LowStock, 1)
	assert.Equal(t, "B-1", low.LowStock[0].SKU)
	assert.Equal(t, 4, low.LowStock[0].Quantity)
}
