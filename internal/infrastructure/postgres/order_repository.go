package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

const orderColumns = `id, order_number, type, status, counterparty, subtotal, tax, total,
	notes, created_by, completed_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas en un solo batch.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.OrderNumber, o.Type, o.Status, o.Counterparty, o.Subtotal, o.Tax, o.Total,
		o.Notes, o.CreatedBy, o.CompletedAt, o.CreatedAt, o.UpdatedAt,
	)
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, product_id, product_name, sku, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, i+1, it.ProductID, it.ProductName, it.SKU, it.Quantity, it.UnitPrice, it.Subtotal,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero con FOR UPDATE sobre la cabecera.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus escritura condicional: solo aplica si el estado actual es from.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, from, to string, completedAt *time.Time, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $3, completed_at = COALESCE($4, completed_at), updated_at = $5
		WHERE id = $1 AND status = $2`,
		id, from, to, completedAt, at,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// List lista órdenes (más recientes primero) con sus líneas.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var w whereBuilder
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		ph := w.next(likePattern(f.Search))
		w.conds = append(w.conds, fmt.Sprintf("(order_number ILIKE %[1]s OR counterparty ILIKE %[1]s)", ph))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args := append([]any{}, w.args...)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC, order_number DESC LIMIT $%d OFFSET $%d`,
		orderColumns, w.sql(), len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, product_name, sku, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.SKU, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Type, &o.Status, &o.Counterparty, &o.Subtotal, &o.Tax, &o.Total,
		&o.Notes, &o.CreatedBy, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// SequenceRepo contadores atómicos por prefijo (tabla order_sequences).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe usarse con la tx de la orden para
// que un rollback no deje huecos en la numeración.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador del prefijo en una sola sentencia.
func (r *SequenceRepo) Next(ctx context.Context, prefix string) (int64, error) {
	var v int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO order_sequences (prefix, value) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = order_sequences.value + 1
		RETURNING value`, prefix).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return v, nil
}
