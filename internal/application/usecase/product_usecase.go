package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/events"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo. La cantidad solo cambia vía AdjustStock o la liquidación de órdenes.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	tx        ports.TxRunner
	cache     ports.Cache
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	tx ports.TxRunner,
	cache ports.Cache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:      repo,
		movements: movements,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		log:       log.Component("products"),
		now:       time.Now,
	}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          inventory.NormalizeSKU(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Category:     strings.TrimSpace(in.Category),
		Description:  strings.TrimSpace(in.Description),
		Quantity:     in.Quantity,
		MinStock:     minStock,
		Unit:         strings.TrimSpace(in.Unit),
		SellingPrice: in.SellingPrice,
		CostPrice:    in.CostPrice,
		Supplier:     strings.TrimSpace(in.Supplier),
		Location:     strings.TrimSpace(in.Location),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Category == "" {
		product.Category = entity.CategoryOther
	}
	if product.Unit == "" {
		product.Unit = entity.DefaultUnit
	}
	if product.Quantity < 0 {
		return nil, domain.Invalid("quantity no puede ser negativa")
	}
	if product.Quantity > entity.MaxQuantity {
		return nil, domain.Invalid("quantity no puede superar %d", entity.MaxQuantity)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza campos del producto. No permite modificar Quantity.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	skuChanged := false
	if in.SKU != nil {
		sku := inventory.NormalizeSKU(*in.SKU)
		skuChanged = sku != product.SKU
		product.SKU = sku
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
		if product.Unit == "" {
			product.Unit = entity.DefaultUnit
		}
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.Supplier != nil {
		product.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.Location != nil {
		product.Location = strings.TrimSpace(*in.Location)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if skuChanged {
		existing, err := uc.repo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, domain.ErrDuplicate
		}
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return ToProductResponse(product), nil
}

// AdjustStock suma in.Adjustment a la cantidad y registra el movimiento en la misma transacción.
// Un resultado negativo devuelve ErrNegativeStock y no aplica nada.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id, userID string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if in.Adjustment == 0 {
		return nil, domain.Invalid("adjustment debe ser distinto de cero")
	}
	if in.Adjustment > entity.MaxQuantity || in.Adjustment < -entity.MaxQuantity {
		return nil, domain.Invalid("adjustment fuera de rango (±%d)", entity.MaxQuantity)
	}
	var updated *entity.Product
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.AdjustQuantity(ctx, id, in.Adjustment)
		if err != nil {
			return err
		}
		updated = p
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     p.ID,
			Delta:         in.Adjustment,
			QuantityAfter: p.Quantity,
			Reason:        entity.MovementReasonAdjustment,
			Note:          strings.TrimSpace(in.Reason),
			CreatedBy:     userID,
			CreatedAt:     uc.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", updated.ID).
		Str("sku", updated.SKU).
		Int("adjustment", in.Adjustment).
		Int("quantity", updated.Quantity).
		Msg("stock ajustado")
	uc.invalidate(ctx)
	if in.Adjustment < 0 {
		uc.publish(ctx, events.LowStockAlerts([]*entity.Product{updated}, uc.now())...)
	}
	return ToProductResponse(updated), nil
}

// Delete elimina un producto. Las órdenes conservan su foto de nombre, SKU y precio.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// List lista productos con filtros, orden, paginación y el resumen del catálogo.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		Category:    strings.TrimSpace(in.Category),
		Search:      strings.TrimSpace(in.Search),
		StockStatus: in.Status,
		SortBy:      in.SortBy,
		SortDir:     strings.ToLower(in.SortDir),
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	switch filter.StockStatus {
	case "", entity.StockStatusIn, entity.StockStatusLow, entity.StockStatusOut:
	default:
		return nil, domain.Invalid("status %q no soportado", filter.StockStatus)
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	if !repository.ProductSortFields[filter.SortBy] {
		return nil, domain.Invalid("sort_by %q no soportado", filter.SortBy)
	}
	if filter.SortDir != "asc" {
		filter.SortDir = "desc"
	}

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
		Stats: dto.CatalogStatsDTO{
			Total:      stats.Total,
			InStock:    stats.InStock,
			LowStock:   stats.LowStock,
			OutOfStock: stats.OutOfStock,
			TotalValue: stats.TotalValue.Round(2),
		},
	}, nil
}

// Movements devuelve el historial de movimientos de un producto, el más reciente primero.
func (uc *ProductUseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	page.DefaultPage()
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, total, err := uc.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			Delta:         m.Delta,
			QuantityAfter: m.QuantityAfter,
			Reason:        m.Reason,
			Note:          m.Note,
			OrderID:       m.OrderID,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, ports.DashboardCacheKeys...); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del tablero")
	}
}

func (uc *ProductUseCase) publish(ctx context.Context, evs ...ports.Event) {
	if len(evs) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, evs...); err != nil {
		uc.log.Warn().Err(err).Int("events", len(evs)).Msg("no se pudieron publicar eventos")
	}
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Name == "":
		return domain.Invalid("name es obligatorio")
	case p.SKU == "":
		return domain.Invalid("sku es obligatorio")
	case !entity.IsValidCategory(p.Category):
		return domain.Invalid("category %q no soportada", p.Category)
	case p.MinStock < 0:
		return domain.Invalid("min_stock no puede ser negativo")
	case p.MinStock > entity.MaxQuantity:
		return domain.Invalid("min_stock no puede superar %d", entity.MaxQuantity)
	case p.SellingPrice.IsNegative():
		return domain.Invalid("selling_price no puede ser negativo")
	case p.CostPrice.IsNegative():
		return domain.Invalid("cost_price no puede ser negativo")
	}
	return nil
}

// ToProductResponse mapea la entidad a DTO con stock_status, margin y stock_value calculados.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Quantity:     p.Quantity,
		MinStock:     p.MinStock,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		CostPrice:    p.CostPrice,
		Supplier:     p.Supplier,
		Location:     p.Location,
		StockStatus:  inventory.StockStatus(p.Quantity, p.MinStock),
		Margin:       inventory.Margin(p.SellingPrice, p.CostPrice),
		StockValue:   inventory.StockValue(p.Quantity, p.CostPrice),
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
