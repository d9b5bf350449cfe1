package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, store *memory.Store, id, sku string, qty int) {
	t.Helper()
	err := memory.NewProductRepository(store).Create(context.Background(), &entity.Product{ID: id, SKU: sku, Name: sku, Quantity: qty})
	require.NoError(t, err)
}

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 10)
	ctx := context.Background()

	err := memory.NewTxRunner(store).Run(ctx, func(repos ports.TxRepos) error {
		if _, err := repos.Products.AdjustQuantity(ctx, "p1", -4); err != nil {
			return err
		}
		_, err := repos.Sequences.Next(ctx, "SAL")
		return err
	})
	require.NoError(t, err)

	p, err := memory.NewProductRepository(store).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, p.Quantity)
	n, err := memory.NewSequenceRepository(store).Next(ctx, "SAL")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestTxRunner_RollsBackEveryWrite(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := memory.NewTxRunner(store).Run(ctx, func(repos ports.TxRepos) error {
		if _, err := repos.Products.AdjustQuantity(ctx, "p1", -4); err != nil {
			return err
		}
		if _, err := repos.Sequences.Next(ctx, "SAL"); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Delta: -4}); err != nil {
			return err
		}
		if err := repos.Orders.Create(ctx, &entity.Order{ID: "o1", OrderNumber: "SAL-00001"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := memory.NewProductRepository(store).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)
	o, err := memory.NewOrderRepository(store).GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, o)
	_, total, err := memory.NewStockMovementRepository(store).ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	n, err := memory.NewSequenceRepository(store).Next(ctx, "SAL")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTxRunner_RollsBackOnPanic(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 3)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = memory.NewTxRunner(store).Run(ctx, func(repos ports.TxRepos) error {
			_, _ = repos.Products.AdjustQuantity(ctx, "p1", 5)
			panic("fallo")
		})
	})

	p, err := memory.NewProductRepository(store).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)
}

func TestTxRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(ports.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_AdjustQuantityGuards(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 2)
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	_, err := repo.AdjustQuantity(ctx, "p1", -3)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	_, err = repo.AdjustQuantity(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := repo.AdjustQuantity(ctx, "p1", -2)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
}

func TestProductRepo_UpdateKeepsQuantityAndUniqueSKU(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 7)
	seedProduct(t, store, "p2", "SKU-2", 1)
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	err := repo.Update(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Nuevo", Quantity: 999})
	require.NoError(t, err)
	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", p.Name)
	assert.Equal(t, 7, p.Quantity)

	err = repo.Update(ctx, &entity.Product{ID: "p1", SKU: "SKU-2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, &entity.Product{ID: "p3", SKU: "SKU-1"}), domain.ErrDuplicate)
}

func TestOrderRepo_UpdateStatusIsConditional(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOrderRepository(store)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o1", OrderNumber: "SAL-00001", Status: entity.OrderStatusPending}))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ok, err := repo.UpdateStatus(ctx, "o1", entity.OrderStatusPending, entity.OrderStatusCancelled, nil, at)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.UpdateStatus(ctx, "o1", entity.OrderStatusPending, entity.OrderStatusCompleted, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	o, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, o.Status)
	assert.True(t, at.Equal(o.UpdatedAt))
}

func TestProductRepo_AdjustQuantityRejectsOverflow(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", entity.MaxQuantity-1)
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	_, err := repo.AdjustQuantity(ctx, "p1", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity-1, p.Quantity)
}
