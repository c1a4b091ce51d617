package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// PaymentAllocator reparte el total de una venta entre varios medios de pago y confirma
// todos los efectos (stock, crédito, caja, pagos y estado) en una sola transacción.
type PaymentAllocator struct {
	txRunner  ports.TxRunner
	saleRepo  repository.SaleRepository
	inventory InventoryUseCase
	credit    CreditUseCase
	cash      CashUseCase
	log       zerolog.Logger
}

// NewPaymentAllocator construye el asignador.
func NewPaymentAllocator(
	txRunner ports.TxRunner,
	saleRepo repository.SaleRepository,
	inventory InventoryUseCase,
	credit CreditUseCase,
	cash CashUseCase,
	log zerolog.Logger,
) *PaymentAllocator {
	return &PaymentAllocator{
		txRunner:  txRunner,
		saleRepo:  saleRepo,
		inventory: inventory,
		credit:    credit,
		cash:      cash,
		log:       log,
	}
}

// TenderInput entrada de un medio de pago. ID existente = reemplazo en el lugar.
type TenderInput struct {
	ID        string
	Method    string
	Amount    decimal.Decimal
	CashGiven *decimal.Decimal
}

// TenderEntry medio de pago aceptado en la sesión.
type TenderEntry struct {
	ID        string
	Method    string
	Amount    decimal.Decimal
	CashGiven *decimal.Decimal
}

// Change vuelto del efectivo: max(0, entregado − monto). Cero para otros medios.
func (e TenderEntry) Change() decimal.Decimal {
	if e.Method != entity.PaymentMethodCash || e.CashGiven == nil {
		return decimal.Zero
	}
	return money.NonNegative(e.CashGiven.Sub(e.Amount))
}

// Session acumula medios de pago contra una venta en borrador. Abandonarla no tiene
// efectos: nada se escribe hasta Finalize.
type Session struct {
	alloc   *PaymentAllocator
	sale    *entity.Sale
	entries []TenderEntry
}

// Begin abre una sesión de asignación sobre la venta.
func (a *PaymentAllocator) Begin(ctx context.Context, saleID string) (*Session, error) {
	sale, err := a.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	if err := sale.CanTransition(entity.SaleStatusPaid); err != nil {
		return nil, err
	}
	return &Session{alloc: a, sale: sale}, nil
}

// Sale devuelve la venta sobre la que opera la sesión.
func (s *Session) Sale() *entity.Sale { return s.sale }

// Entries devuelve una copia de los medios de pago actuales.
func (s *Session) Entries() []TenderEntry {
	return append([]TenderEntry(nil), s.entries...)
}

// EntriesTotal = Σ montos.
func (s *Session) EntriesTotal() decimal.Decimal {
	return s.totalExcluding("")
}

// Remaining = max(0, total − Σ montos).
func (s *Session) Remaining() decimal.Decimal {
	return money.NonNegative(s.sale.Total.Sub(s.EntriesTotal()))
}

// IsFullyCovered indica si los medios cubren el total. Los montos están en centavos exactos,
// así que la comparación no necesita tolerancia.
func (s *Session) IsFullyCovered() bool {
	return s.Remaining().IsZero()
}

// UsedCredit = Σ montos con medio crédito.
func (s *Session) UsedCredit() decimal.Decimal {
	return s.creditExcluding("")
}

// AvailableCredit = max(0, saldo del cliente − crédito usado en la sesión).
func (s *Session) AvailableCredit(ctx context.Context) (decimal.Decimal, error) {
	return s.availableCreditExcluding(ctx, "")
}

// TotalChange suma el vuelto de los pagos en efectivo.
func (s *Session) TotalChange() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Change())
	}
	return total
}

// AddEntry valida y agrega (o reemplaza por ID) un medio de pago.
func (s *Session) AddEntry(ctx context.Context, in TenderInput) (TenderEntry, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if !entity.ValidPaymentMethod(method) {
		return TenderEntry{}, fmt.Errorf("%w: medio de pago %q desconocido", domain.ErrInvalidInput, in.Method)
	}
	amount := money.Round(in.Amount)
	if !amount.IsPositive() {
		return TenderEntry{}, domain.ErrInvalidAmount
	}

	remaining := money.NonNegative(s.sale.Total.Sub(s.totalExcluding(in.ID)))
	if amount.GreaterThan(remaining) {
		return TenderEntry{}, fmt.Errorf("%w: pendiente %s, monto %s", domain.ErrAmountExceedsRemaining,
			remaining.StringFixed(2), amount.StringFixed(2))
	}

	switch method {
	case entity.PaymentMethodCredit:
		available, err := s.availableCreditExcluding(ctx, in.ID)
		if err != nil {
			return TenderEntry{}, err
		}
		if amount.GreaterThan(available) {
			return TenderEntry{}, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrCreditExceeded,
				available.StringFixed(2), amount.StringFixed(2))
		}
	case entity.PaymentMethodFiado:
		if !s.sale.HasCustomer() {
			return TenderEntry{}, domain.ErrFiadoRequiresCustomer
		}
	}

	entry := TenderEntry{ID: in.ID, Method: method, Amount: amount}
	if method == entity.PaymentMethodCash && in.CashGiven != nil {
		given := money.Round(*in.CashGiven)
		if given.IsNegative() {
			return TenderEntry{}, domain.ErrInvalidAmount
		}
		entry.CashGiven = &given
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			return entry, nil
		}
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// RemoveEntry quita un medio de pago. No-op si el ID no existe.
func (s *Session) RemoveEntry(id string) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Summary foto de los valores derivados de la sesión.
type Summary struct {
	Total           decimal.Decimal
	EntriesTotal    decimal.Decimal
	Remaining       decimal.Decimal
	IsFullyCovered  bool
	UsedCredit      decimal.Decimal
	AvailableCredit decimal.Decimal
	TotalChange     decimal.Decimal
	Entries         []TenderEntry
}

// Summary calcula todos los valores derivados.
func (s *Session) Summary(ctx context.Context) (Summary, error) {
	available, err := s.AvailableCredit(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Total:           s.sale.Total,
		EntriesTotal:    s.EntriesTotal(),
		Remaining:       s.Remaining(),
		IsFullyCovered:  s.IsFullyCovered(),
		UsedCredit:      s.UsedCredit(),
		AvailableCredit: available,
		TotalChange:     s.TotalChange(),
		Entries:         s.Entries(),
	}, nil
}

func (s *Session) totalExcluding(id string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		if id != "" && e.ID == id {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

func (s *Session) creditExcluding(id string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		if e.Method != entity.PaymentMethodCredit || (id != "" && e.ID == id) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

func (s *Session) availableCreditExcluding(ctx context.Context, id string) (decimal.Decimal, error) {
	if !s.sale.HasCustomer() {
		return decimal.Zero, nil
	}
	balance, err := s.alloc.credit.Balance(ctx, s.sale.CustomerID)
	if err != nil {
		return decimal.Zero, err
	}
	return money.NonNegative(balance.Sub(s.creditExcluding(id))), nil
}
