// Package memory implementa los puertos de persistencia sobre mapas en memoria.
//
// Se usa en tests y con STORE_DRIVER=memory. Un único mutex protege todo el estado;
// TxRunner lo toma durante todo el callback y deshace los cambios si fn falla, de modo
// que la semántica de commit/rollback coincide con la del adaptador PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	sequences map[string]int64
	movements []*entity.StockMovement
	users     map[string]*entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		orders:    make(map[string]*entity.Order),
		sequences: make(map[string]int64),
		users:     make(map[string]*entity.User),
	}
}

// session ata un repositorio al store. Con undo != nil está dentro de una transacción:
// el lock ya lo tiene TxRunner y cada mutación registra su inversa.
type session struct {
	store *Store
	undo  *[]func()
}

func (s session) lock() func() {
	if s.undo != nil {
		return func() {}
	}
	s.store.mu.Lock()
	return s.store.mu.Unlock
}

func (s session) record(fn func()) {
	if s.undo != nil {
		*s.undo = append(*s.undo, fn)
	}
}

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con acceso exclusivo al store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos transaccionales. Si fn devuelve error (o entra en pánico)
// se aplican las inversas en orden contrario y no queda ningún cambio.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	sess := session{store: r.store, undo: &undo}
	if err := fn(ports.TxRepos{
		Products:  &ProductRepo{s: sess},
		Orders:    &OrderRepo{s: sess},
		Sequences: &SequenceRepo{s: sess},
		Movements: &StockMovementRepo{s: sess},
	}); err != nil {
		rollback()
		return err
	}
	return nil
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func copyOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
