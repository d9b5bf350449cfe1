package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Sequences repository.SequenceRepository
	Movements repository.StockMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Cache caché de lectura clave/valor (JSON). Un miss devuelve (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Event evento de dominio listo para publicar.
type Event struct {
	Topic   string // nombre lógico, ej. "orders.completed"
	Key     string
	Payload any
}

// EventPublisher puerto de salida para eventos de dominio.
// Se invoca después del commit; un fallo no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// OrderDocumentRenderer genera la representación PDF de una orden.
type OrderDocumentRenderer interface {
	RenderOrder(ctx context.Context, order *entity.Order) ([]byte, error)
}

// Claves de caché del tablero. Toda escritura de catálogo u órdenes las invalida.
const (
	CacheKeyDashboardStats    = "dashboard:stats"
	CacheKeyCategoryBreakdown = "dashboard:category-breakdown"
)

// DashboardCacheKeys lista las claves que se borran al invalidar.
var DashboardCacheKeys = []string{CacheKeyDashboardStats, CacheKeyCategoryBreakdown}
