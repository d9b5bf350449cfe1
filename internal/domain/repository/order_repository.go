package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// OrderFilter filtros y paginación del listado de órdenes.
type OrderFilter struct {
	Type   string
	Status string
	Search string // número de orden o contraparte, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus cambia el estado solo si el actual es from y fija updated_at = at.
	// Devuelve false si no aplicó.
	UpdateStatus(ctx context.Context, id, from, to string, completedAt *time.Time, at time.Time) (bool, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
	Delete(ctx context.Context, id string) error
}

// SequenceRepository entrega números correlativos por prefijo.
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor del prefijo (1 en el primer uso).
	Next(ctx context.Context, prefix string) (int64, error)
}
