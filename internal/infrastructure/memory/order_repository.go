package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s session
}

// NewOrderRepository construye el repositorio fuera de transacción.
func NewOrderRepository(store *Store) *OrderRepo {
	return &OrderRepo{s: session{store: store}}
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	defer r.s.lock()()
	st := r.s.store
	for _, o := range st.orders {
		if o.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	st.orders[order.ID] = copyOrder(order)
	id := order.ID
	r.s.record(func() { delete(st.orders, id) })
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.s.lock()()
	return copyOrder(r.s.store.orders[id]), nil
}

// GetForUpdate equivale a GetByID: dentro de TxRunner el lock del store ya es exclusivo.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id, from, to string, completedAt *time.Time, at time.Time) (bool, error) {
	defer r.s.lock()()
	st := r.s.store
	current, ok := st.orders[id]
	if !ok || current.Status != from {
		return false, nil
	}
	prev := copyOrder(current)
	next := copyOrder(current)
	next.Status = to
	if completedAt != nil {
		t := *completedAt
		next.CompletedAt = &t
	}
	next.UpdatedAt = at
	st.orders[id] = next
	r.s.record(func() { st.orders[prev.ID] = prev })
	return true, nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	defer r.s.lock()()
	search := strings.ToLower(f.Search)
	var matched []*entity.Order
	for _, o := range r.s.store.orders {
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.OrderNumber), search) &&
			!strings.Contains(strings.ToLower(o.Counterparty), search) {
			continue
		}
		matched = append(matched, copyOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if c := matched[i].CreatedAt.Compare(matched[j].CreatedAt); c != 0 {
			return c > 0
		}
		return matched[i].OrderNumber > matched[j].OrderNumber
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.store
	prev, ok := st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(st.orders, id)
	r.s.record(func() { st.orders[prev.ID] = prev })
	return nil
}

// SequenceRepo contadores por prefijo.
type SequenceRepo struct {
	s session
}

// NewSequenceRepository construye el repositorio fuera de transacción.
func NewSequenceRepository(store *Store) *SequenceRepo {
	return &SequenceRepo{s: session{store: store}}
}

func (r *SequenceRepo) Next(_ context.Context, prefix string) (int64, error) {
	defer r.s.lock()()
	st := r.s.store
	prev := st.sequences[prefix]
	st.sequences[prefix] = prev + 1
	r.s.record(func() { st.sequences[prefix] = prev })
	return prev + 1, nil
}
