// Package orders implementa el libro de órdenes y su liquidación contra el catálogo.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	domorders "github.com/jhoicas/stockflow-api/internal/domain/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
	"github.com/jhoicas/stockflow-api/pkg/telemetry"
)

const tracerName = "github.com/jhoicas/stockflow-api/internal/application/orders"

// Service casos de uso de órdenes de venta y compra.
type Service struct {
	orders    repository.OrderRepository
	tx        ports.TxRunner
	cache     ports.Cache
	publisher ports.EventPublisher
	renderer  ports.OrderDocumentRenderer
	log       *logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService construye el servicio de órdenes.
func NewService(
	orders repository.OrderRepository,
	tx ports.TxRunner,
	cache ports.Cache,
	publisher ports.EventPublisher,
	renderer ports.OrderDocumentRenderer,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		renderer:  renderer,
		log:       log.Component("orders"),
		tracer:    telemetry.Tracer(tracerName),
		now:       time.Now,
	}
}

// CreateOrder valida las líneas contra el catálogo, toma la foto de precios y persiste la orden en pending.
// En ventas exige stock suficiente al momento de crear; no reserva unidades.
func (s *Service) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "orders.CreateOrder", trace.WithAttributes(
		attribute.String("order.type", in.Type),
		attribute.Int("order.items", len(in.Items)),
	))
	defer span.End()

	order, err := s.createOrder(ctx, userID, in)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.OrderNumber))
	s.log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Msg("orden creada")
	s.invalidate(ctx)
	return ToOrderResponse(order), nil
}

func (s *Service) createOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	orderType := strings.TrimSpace(in.Type)
	counterparty := strings.TrimSpace(in.Counterparty)
	if !domorders.IsValidType(orderType) {
		return nil, domain.Invalid("type debe ser sale o purchase")
	}
	if counterparty == "" {
		return nil, domain.Invalid("counterparty es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("la orden debe tener al menos un ítem")
	}
	if in.Tax.IsNegative() {
		return nil, domain.Invalid("tax no puede ser negativo")
	}
	tax := in.Tax.Round(2)
	requested := make(map[string]int, len(in.Items))
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, domain.Invalid("items[%d].product_id es obligatorio", i)
		}
		if it.Quantity < 1 || it.Quantity > entity.MaxQuantity {
			return nil, domain.Invalid("items[%d].quantity debe estar entre 1 y %d", i, entity.MaxQuantity)
		}
		id := strings.TrimSpace(it.ProductID)
		requested[id] += it.Quantity
		if requested[id] > entity.MaxQuantity {
			return nil, domain.Invalid("la cantidad total del producto %s supera %d", id, entity.MaxQuantity)
		}
	}

	var order *entity.Order
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		loaded := make(map[string]*entity.Product, len(requested))
		items := make([]entity.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			id := strings.TrimSpace(it.ProductID)
			p, ok := loaded[id]
			if !ok {
				var err error
				p, err = repos.Products.GetByID(ctx, id)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
				}
				if orderType == entity.OrderTypeSale && p.Quantity < requested[id] {
					return &domain.InsufficientStockError{
						ProductID:   p.ID,
						ProductName: p.Name,
						SKU:         p.SKU,
						Available:   p.Quantity,
						Requested:   requested[id],
					}
				}
				loaded[id] = p
			}
			unitPrice := p.SellingPrice
			if orderType == entity.OrderTypePurchase {
				unitPrice = p.CostPrice
			}
			items = append(items, entity.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				SKU:         p.SKU,
				Quantity:    it.Quantity,
				UnitPrice:   unitPrice,
				Subtotal:    domorders.LineSubtotal(it.Quantity, unitPrice),
			})
		}

		prefix, err := domorders.Prefix(orderType)
		if err != nil {
			return err
		}
		seq, err := repos.Sequences.Next(ctx, prefix)
		if err != nil {
			return err
		}
		subtotal, total := domorders.ComputeTotals(items, tax)
		now := s.now()
		order = &entity.Order{
			ID:           uuid.New().String(),
			OrderNumber:  domorders.FormatOrderNumber(prefix, seq),
			Type:         orderType,
			Status:       entity.OrderStatusPending,
			Counterparty: counterparty,
			Items:        items,
			Subtotal:     subtotal,
			Tax:          tax,
			Total:        total,
			Notes:        strings.TrimSpace(in.Notes),
			CreatedBy:    userID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID obtiene una orden con sus líneas.
func (s *Service) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return ToOrderResponse(order), nil
}

// List lista órdenes con filtros de tipo, estado y búsqueda, las más recientes primero.
func (s *Service) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	if in.Type != "" && !domorders.IsValidType(in.Type) {
		return nil, domain.Invalid("type %q no soportado", in.Type)
	}
	if in.Status != "" && !domorders.IsValidStatus(in.Status) {
		return nil, domain.Invalid("status %q no soportado", in.Status)
	}
	list, total, err := s.orders.List(ctx, repository.OrderFilter{
		Type:   in.Type,
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete elimina una orden pendiente o cancelada. Las completadas no se borran.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusCompleted {
			return domain.ErrOrderCompleted
		}
		return repos.Orders.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("order_id", id).Msg("orden eliminada")
	s.invalidate(ctx)
	return nil
}

// RenderPDF genera el documento PDF de la orden.
func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := s.renderer.RenderOrder(ctx, order)
	if err != nil {
		return nil, "", fmt.Errorf("render order pdf: %w", err)
	}
	return pdf, order.OrderNumber + ".pdf", nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, ports.DashboardCacheKeys...); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar la caché del tablero")
	}
}

func (s *Service) publish(ctx context.Context, evs ...ports.Event) {
	if len(evs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.log.Warn().Err(err).Int("events", len(evs)).Msg("no se pudieron publicar eventos")
	}
}

// ToOrderResponse mapea la entidad a DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Type:         o.Type,
		Status:       o.Status,
		Counterparty: o.Counterparty,
		Items:        items,
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		Total:        o.Total,
		Notes:        o.Notes,
		CreatedBy:    o.CreatedBy,
		CompletedAt:  o.CompletedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
