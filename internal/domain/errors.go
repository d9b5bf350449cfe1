package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("transición de estado no permitida")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrNegativeStock lo devuelve AdjustQuantity cuando el resultado quedaría bajo cero.
	ErrNegativeStock = fmt.Errorf("%w: el ajuste dejaría stock negativo", ErrInvalidState)
	// ErrOrderCompleted: una orden completada es inmutable.
	ErrOrderCompleted = fmt.Errorf("%w: las órdenes completadas no se pueden modificar", ErrInvalidState)
	// ErrOrderCancelled: una orden cancelada no admite más transiciones.
	ErrOrderCancelled = fmt.Errorf("%w: las órdenes canceladas no se pueden modificar", ErrInvalidState)
)

// InsufficientStockError detalla qué producto no alcanza para una venta.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	SKU         string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.ProductName, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Invalid envuelve ErrInvalidInput con el detalle del campo.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
