// Package memory implementa los repositorios y el TxRunner en memoria.
// Es el backend por defecto para desarrollo y para los tests de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

type state struct {
	stock  []*entity.StockMovement
	credit []*entity.CreditMovement
	cash   []*entity.CashEntry
	sales  map[string]*entity.Sale
	users  map[string]*entity.User
}

// fork copia el estado para una unidad de trabajo. Los elementos son inmutables
// (movimientos) o se clonan al escribir (ventas), así que basta con copiar contenedores.
func (s *state) fork() *state {
	f := &state{
		stock:  append([]*entity.StockMovement(nil), s.stock...),
		credit: append([]*entity.CreditMovement(nil), s.credit...),
		cash:   append([]*entity.CashEntry(nil), s.cash...),
		sales:  make(map[string]*entity.Sale, len(s.sales)),
		users:  make(map[string]*entity.User, len(s.users)),
	}
	for id, sale := range s.sales {
		f.sales[id] = sale
	}
	for id, u := range s.users {
		f.users[id] = u
	}
	return f
}

// Store guarda todo el estado detrás de un único mutex.
// Run mantiene el mutex durante toda la unidad de trabajo: las transacciones quedan serializadas.
// Dentro de fn solo deben usarse los repositorios recibidos (el mutex no es reentrante).
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: &state{
		sales: make(map[string]*entity.Sale),
		users: make(map[string]*entity.User),
	}}
}

// StockMovements repositorio de stock fuera de transacción.
func (s *Store) StockMovements() repository.StockMovementRepository { return &stockRepo{store: s} }

// CreditMovements repositorio de crédito fuera de transacción.
func (s *Store) CreditMovements() repository.CreditMovementRepository { return &creditRepo{store: s} }

// CashEntries repositorio de caja fuera de transacción.
func (s *Store) CashEntries() repository.CashEntryRepository { return &cashRepo{store: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{store: s} }

// Users repositorio del personal. No participa de las transacciones de venta.
func (s *Store) Users() repository.UserRepository { return &userRepo{store: s} }

// Run implementa ports.TxRunner: las escrituras van a una copia del estado que solo se
// publica si fn retorna nil.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockMovementRepository,
	creditRepo repository.CreditMovementRepository,
	cashRepo repository.CashEntryRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.fork()
	err := fn(
		&stockRepo{store: s, tx: work},
		&creditRepo{store: s, tx: work},
		&cashRepo{store: s, tx: work},
		&saleRepo{store: s, tx: work},
	)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// view ejecuta fn sobre el estado de la transacción o, fuera de ella, sobre el estado
// publicado con el mutex tomado.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}
