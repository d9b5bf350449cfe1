package orders_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/events"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evs ...ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type countingCache struct {
	mu      sync.Mutex
	deletes int
}

func (c *countingCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (c *countingCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (c *countingCache) Delete(context.Context, ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	return nil
}

type stubRenderer struct{}

func (stubRenderer) RenderOrder(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF " + o.OrderNumber), nil
}

type fixture struct {
	products *usecase.ProductUseCase
	svc      *orders.Service
	events   *recordingPublisher
	cache    *countingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	pub := &recordingPublisher{}
	cache := &countingCache{}
	log := logger.Nop()
	return &fixture{
		products: usecase.NewProductUseCase(memory.NewProductRepository(store), memory.NewStockMovementRepository(store), tx, cache, pub, log),
		svc:      orders.NewService(memory.NewOrderRepository(store), tx, cache, pub, stubRenderer{}, log),
		events:   pub,
		cache:    cache,
	}
}

func (f *fixture) product(t *testing.T, sku string, qty int, price string) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), "u-1", dto.CreateProductRequest{
		SKU: sku, Name: "Producto " + sku, Quantity: qty,
		SellingPrice: decimal.RequireFromString(price), CostPrice: decimal.RequireFromString("1.00"),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) order(t *testing.T, typ string, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
		Type: typ, Counterparty: "ACME", Items: items,
	})
	require.NoError(t, err)
	return o
}

func line(productID string, qty int) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductID: productID, Quantity: qty}
}

func TestSaleScenario_WK001(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "WK-001", 45, "79.99")

	o := f.order(t, entity.OrderTypeSale, line(p.ID, 5))
	assert.Equal(t, "399.95", o.Subtotal.StringFixed(2))
	assert.Equal(t, "399.95", o.Total.StringFixed(2))
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Nil(t, o.CompletedAt)
	assert.Equal(t, 45, f.quantity(t, p.ID))

	done, err := f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, 40, f.quantity(t, p.ID))

	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	moves, err := f.products.Movements(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, moves.Items, 1)
	assert.Equal(t, -5, moves.Items[0].Delta)
	assert.Equal(t, 40, moves.Items[0].QuantityAfter)
	assert.Equal(t, o.OrderNumber, moves.Items[0].Note)
	assert.Equal(t, o.ID, moves.Items[0].OrderID)

	assert.Contains(t, f.events.topics(), events.TopicOrderCompleted)
}

func TestCreateOrder_TotalsWithTax(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A-1", 10, "19.99")
	b := f.product(t, "B-1", 10, "0.11")

	o, err := f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "ACME",
		Items: []dto.OrderItemRequest{line(a.ID, 3), line(b.ID, 1)},
		Tax:   decimal.RequireFromString("5.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "60.08", o.Subtotal.StringFixed(2))
	assert.Equal(t, "65.58", o.Total.StringFixed(2))
	require.Len(t, o.Items, 2)
	assert.Equal(t, "59.97", o.Items[0].Subtotal.StringFixed(2))
}

func TestCreateOrder_PurchaseUsesCostPrice(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "C-1", 0, "50.00")

	o := f.order(t, entity.OrderTypePurchase, line(p.ID, 4))
	assert.Equal(t, "PUR-00001", o.OrderNumber)
	assert.Equal(t, "1.00", o.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "4.00", o.Total.StringFixed(2))
}

func TestCreateOrder_SaleRejectedWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "S-1", 3, "10")

	_, err := f.svc.CreateOrder(ctx, "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "ACME",
		Items: []dto.OrderItemRequest{line(p.ID, 2), line(p.ID, 2)},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, "S-1", stockErr.SKU)

	list, err := f.svc.List(ctx, dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Page.Total)

	// el número rechazado no se consume
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	assert.Equal(t, "SAL-00001", o.OrderNumber)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "V-1", 3, "10")
	cases := map[string]dto.CreateOrderRequest{
		"tipo inválido":     {Type: "gift", Counterparty: "x", Items: []dto.OrderItemRequest{line(p.ID, 1)}},
		"sin contraparte":   {Type: entity.OrderTypeSale, Items: []dto.OrderItemRequest{line(p.ID, 1)}},
		"sin ítems":         {Type: entity.OrderTypeSale, Counterparty: "x"},
		"cantidad cero":     {Type: entity.OrderTypeSale, Counterparty: "x", Items: []dto.OrderItemRequest{line(p.ID, 0)}},
		"producto vacío":    {Type: entity.OrderTypeSale, Counterparty: "x", Items: []dto.OrderItemRequest{line("", 1)}},
		"impuesto negativo": {Type: entity.OrderTypeSale, Counterparty: "x", Items: []dto.OrderItemRequest{line(p.ID, 1)}, Tax: decimal.NewFromInt(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(context.Background(), "u-1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "x", Items: []dto.OrderItemRequest{line("no-existe", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderNumbers_PerTypeSequences(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "N-1", 100, "1")

	got := []string{
		f.order(t, entity.OrderTypeSale, line(p.ID, 1)).OrderNumber,
		f.order(t, entity.OrderTypePurchase, line(p.ID, 1)).OrderNumber,
		f.order(t, entity.OrderTypeSale, line(p.ID, 1)).OrderNumber,
		f.order(t, entity.OrderTypePurchase, line(p.ID, 1)).OrderNumber,
	}
	assert.Equal(t, []string{"SAL-00001", "PUR-00001", "SAL-00002", "PUR-00002"}, got)
}

func TestOrderNumbers_ConcurrentCreatesAreUnique(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "N-2", 0, "1")

	const n = 20
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
				Type: entity.OrderTypePurchase, Counterparty: "Proveedor", Items: []dto.OrderItemRequest{line(p.ID, 1)},
			})
			if assert.NoError(t, err) {
				numbers <- o.OrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["PUR-00020"])
}

func TestTransition_DoubleCompletionAppliesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "D-1", 10, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 4))

	_, err := f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	assert.ErrorIs(t, err, domain.ErrOrderCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCancelled, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 6, f.quantity(t, p.ID))
}

func TestTransition_ConcurrentCompletionOfSameOrder(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "D-2", 10, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 3))

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusCompleted, "u-1")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, f.quantity(t, p.ID))
}

func TestTransition_TwoSalesCompetingForLastUnits(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "R-1", 5, "1")
	first := f.order(t, entity.OrderTypeSale, line(p.ID, 5))
	second := f.order(t, entity.OrderTypeSale, line(p.ID, 5))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.TransitionStatus(context.Background(), id, entity.OrderStatusCompleted, "u-1")
		}(i, id)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, f.quantity(t, p.ID))
}

func TestTransition_FailedSettlementRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plenty := f.product(t, "AA-1", 50, "1")
	scarce := f.product(t, "ZZ-1", 5, "1")
	o := f.order(t, entity.OrderTypeSale, line(plenty.ID, 10), line(scarce.ID, 5))

	_, err := f.products.AdjustStock(ctx, scarce.ID, "u-1", dto.AdjustStockRequest{Adjustment: -3})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	assert.Equal(t, 50, f.quantity(t, plenty.ID))
	assert.Equal(t, 2, f.quantity(t, scarce.ID))
	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)

	moves, err := f.products.Movements(ctx, plenty.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, moves.Items)
}

func TestTransition_PurchaseAddsStockAndCancelIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "P-1", 2, "1")

	purchase := f.order(t, entity.OrderTypePurchase, line(p.ID, 8))
	_, err := f.svc.TransitionStatus(ctx, purchase.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 10, f.quantity(t, p.ID))

	sale := f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	same, err := f.svc.TransitionStatus(ctx, sale.ID, entity.OrderStatusPending, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, same.Status)

	cancelled, err := f.svc.TransitionStatus(ctx, sale.ID, entity.OrderStatusCancelled, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CompletedAt)

	_, err = f.svc.TransitionStatus(ctx, sale.ID, entity.OrderStatusCompleted, "u-1")
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
	assert.Equal(t, 10, f.quantity(t, p.ID))

	_, err = f.svc.TransitionStatus(ctx, sale.ID, "shipped", "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.TransitionStatus(ctx, "no-existe", entity.OrderStatusCompleted, "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_DeletedProductFailsSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "G-1", 5, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	require.NoError(t, f.products.Delete(ctx, p.ID))

	_, err := f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)
}

func TestOrderSnapshot_ImmuneToProductChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SN-1", 10, "19.99")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 2))

	name := "Nombre nuevo"
	price := decimal.RequireFromString("99.00")
	_, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, SellingPrice: &price})
	require.NoError(t, err)

	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Producto SN-1", stored.Items[0].ProductName)
	assert.Equal(t, "19.99", stored.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "39.98", stored.Total.StringFixed(2))

	require.NoError(t, f.products.Delete(ctx, p.ID))
	stored, err = f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-1", stored.Items[0].SKU)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "DEL-1", 10, "1")

	pending := f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	require.NoError(t, f.svc.Delete(ctx, pending.ID))
	_, err := f.svc.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	completed := f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	_, err = f.svc.TransitionStatus(ctx, completed.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(ctx, completed.ID), domain.ErrOrderCompleted)
	assert.ErrorIs(t, f.svc.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestListOrders_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "L-1", 10, "1")
	f.order(t, entity.OrderTypeSale, line(p.ID, 1))
	f.order(t, entity.OrderTypePurchase, line(p.ID, 1))

	sales, err := f.svc.List(ctx, dto.OrderFilterRequest{Type: entity.OrderTypeSale})
	require.NoError(t, err)
	assert.Equal(t, 1, sales.Page.Total)
	assert.Equal(t, "SAL-00001", sales.Items[0].OrderNumber)

	byNumber, err := f.svc.List(ctx, dto.OrderFilterRequest{Search: "pur-"})
	require.NoError(t, err)
	assert.Equal(t, 1, byNumber.Page.Total)

	_, err = f.svc.List(ctx, dto.OrderFilterRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderPDF(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PDF-1", 1, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 1))

	doc, name, err := f.svc.RenderPDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "SAL-00001.pdf", name)
	assert.Equal(t, "%PDF SAL-00001", string(doc))

	_, _, err = f.svc.RenderPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettlement_InvalidatesCacheAndPublishesLowStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "EV-1", 6, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 4))
	before := f.cache.deletes

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)

	assert.Greater(t, f.cache.deletes, before)
	assert.Contains(t, f.events.topics(), events.TopicLowStock)
}

func TestCreateOrder_RejectsQuantitiesBeyondStockRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "OV-1", 0, "1")

	cases := map[string][]dto.OrderItemRequest{
		"línea enorme":          {line(p.ID, math.MaxInt), line(p.ID, 2)},
		"suma por producto":     {line(p.ID, entity.MaxQuantity), line(p.ID, 1)},
		"línea sobre el límite": {line(p.ID, entity.MaxQuantity+1)},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			for _, typ := range []string{entity.OrderTypeSale, entity.OrderTypePurchase} {
				_, err := f.svc.CreateOrder(ctx, "u-1", dto.CreateOrderRequest{Type: typ, Counterparty: "ACME", Items: items})
				assert.ErrorIs(t, err, domain.ErrInvalidInput, typ)
			}
		})
	}

	list, err := f.svc.List(ctx, dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Page.Total)
	assert.Equal(t, 0, f.quantity(t, p.ID))
}

func TestCreateOrder_RoundsTax(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TX-1", 10, "10.00")

	o, err := f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "ACME",
		Items: []dto.OrderItemRequest{line(p.ID, 1)},
		Tax:   decimal.RequireFromString("0.004"),
	})
	require.NoError(t, err)
	assert.True(t, o.Tax.IsZero(), o.Tax.String())
	assert.Equal(t, "10.00", o.Total.StringFixed(2))

	o, err = f.svc.CreateOrder(context.Background(), "u-1", dto.CreateOrderRequest{
		Type: entity.OrderTypeSale, Counterparty: "ACME",
		Items: []dto.OrderItemRequest{line(p.ID, 1)},
		Tax:   decimal.RequireFromString("2.499"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2.5", o.Tax.String())
	stored, err := f.svc.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, o.Tax.Equal(stored.Tax))
	assert.Equal(t, "12.50", stored.Total.StringFixed(2))
}

func TestTransition_ResponseMatchesStoredTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "TS-1", 5, "1")
	o := f.order(t, entity.OrderTypeSale, line(p.ID, 1))

	done, err := f.svc.TransitionStatus(ctx, o.ID, entity.OrderStatusCompleted, "u-1")
	require.NoError(t, err)
	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, done.UpdatedAt.Equal(stored.UpdatedAt), "%v != %v", done.UpdatedAt, stored.UpdatedAt)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(*stored.CompletedAt))
}
