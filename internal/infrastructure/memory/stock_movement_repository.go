package memory

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos en memoria (solo se agrega).
type StockMovementRepo struct {
	s session
}

// NewStockMovementRepository construye el repositorio fuera de transacción.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{s: session{store: store}}
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	defer r.s.lock()()
	st := r.s.store
	c := *movement
	n := len(st.movements)
	st.movements = append(st.movements, &c)
	r.s.record(func() { st.movements = st.movements[:n] })
	return nil
}

// ListByProduct devuelve los movimientos del producto, el más reciente primero.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, int, error) {
	defer r.s.lock()()
	var matched []*entity.StockMovement
	all := r.s.store.movements
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].ProductID == productID {
			c := *all[i]
			matched = append(matched, &c)
		}
	}
	return page(matched, limit, offset), len(matched), nil
}
