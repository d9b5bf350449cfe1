package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/events"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	domorders "github.com/jhoicas/stockflow-api/internal/domain/orders"
	"github.com/jhoicas/stockflow-api/pkg/telemetry"
)

// TransitionStatus mueve una orden pending a newStatus.
//
// Al completar aplica el stock de todas las líneas en una sola transacción: ventas descuentan,
// compras suman. Si algún producto no alcanza o ya no existe, se revierte todo y la orden
// sigue pending. El bloqueo de la fila de la orden más la escritura condicional del estado
// garantizan que el stock se aplique una sola vez aunque lleguen completados concurrentes.
func (s *Service) TransitionStatus(ctx context.Context, orderID, newStatus, userID string) (*dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "orders.TransitionStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.new_status", newStatus),
	))
	defer span.End()

	if !domorders.IsValidStatus(newStatus) {
		err := domain.Invalid("estado %q no soportado", newStatus)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		order   *entity.Order
		from    string
		noop    bool
		touched []*entity.Product
	)
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		touched = nil
		o, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		from = o.Status
		if noop, err = domorders.CheckTransition(o.Status, newStatus); err != nil {
			return err
		}
		if noop {
			order = o
			return nil
		}

		now := s.now()
		var completedAt *time.Time
		if newStatus == entity.OrderStatusCompleted {
			touched, err = s.applyStock(ctx, repos, o, userID, now)
			if err != nil {
				return err
			}
			completedAt = &now
		}

		ok, err := repos.Orders.UpdateStatus(ctx, o.ID, entity.OrderStatusPending, newStatus, completedAt, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: la orden %s cambió de estado en paralelo", domain.ErrInvalidState, o.OrderNumber)
		}
		o.Status = newStatus
		o.CompletedAt = completedAt
		o.UpdatedAt = now
		order = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.log.Ctx(ctx).Warn().
			Err(err).
			Str("order_id", orderID).
			Str("from", from).
			Str("to", newStatus).
			Msg("transición de orden rechazada")
		return nil, err
	}
	if noop {
		return ToOrderResponse(order), nil
	}

	span.SetAttributes(attribute.String("order.number", order.OrderNumber))
	s.log.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("from", from).
		Str("to", order.Status).
		Int("products_adjusted", len(touched)).
		Msg("orden liquidada")

	s.invalidate(ctx)
	evs := []ports.Event{events.OrderStatusChanged(order, userID, order.UpdatedAt)}
	if order.Type == entity.OrderTypeSale {
		evs = append(evs, events.LowStockAlerts(touched, order.UpdatedAt)...)
	}
	s.publish(ctx, evs...)
	return ToOrderResponse(order), nil
}

// applyStock aplica los deltas agregados por producto en orden ascendente de ID y registra
// un movimiento por cada uno. Cualquier error deja la transacción para rollback.
func (s *Service) applyStock(ctx context.Context, repos ports.TxRepos, o *entity.Order, userID string, now time.Time) ([]*entity.Product, error) {
	deltas := domorders.Deltas(o)
	touched := make([]*entity.Product, 0, len(deltas))
	for _, d := range deltas {
		p, err := repos.Products.AdjustQuantity(ctx, d.ProductID, d.Delta)
		switch {
		case errors.Is(err, domain.ErrNegativeStock):
			return nil, s.insufficient(ctx, repos, d)
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("%w: el producto %q (%s) de la orden %s ya no existe",
				domain.ErrNotFound, d.ProductName, d.SKU, o.OrderNumber)
		case err != nil:
			return nil, err
		}
		err = repos.Movements.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     p.ID,
			Delta:         d.Delta,
			QuantityAfter: p.Quantity,
			Reason:        domorders.MovementReason(o.Type),
			Note:          o.OrderNumber,
			OrderID:       o.ID,
			CreatedBy:     userID,
			CreatedAt:     now,
		})
		if err != nil {
			return nil, err
		}
		touched = append(touched, p)
	}
	return touched, nil
}

func (s *Service) insufficient(ctx context.Context, repos ports.TxRepos, d domorders.ProductDelta) error {
	e := &domain.InsufficientStockError{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		SKU:         d.SKU,
		Requested:   d.Requested,
	}
	if p, err := repos.Products.GetByID(ctx, d.ProductID); err == nil && p != nil {
		e.ProductName = p.Name
		e.SKU = p.SKU
		e.Available = p.Quantity
	}
	return e
}
