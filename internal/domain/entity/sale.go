package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/money"
)

// Estados de la venta.
const (
	SaleStatusDraft    = "draft"
	SaleStatusPaid     = "paid"
	SaleStatusRefunded = "refunded"
)

// Tipos de ítem de venta.
const (
	ItemTypeService = "service"
	ItemTypeProduct = "product"
)

// Medios de pago (tenders).
const (
	PaymentMethodCash     = "cash"
	PaymentMethodPix      = "pix"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCredit   = "credit"
	PaymentMethodFiado    = "fiado"
)

// ValidPaymentMethod indica si el medio de pago es conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCard, PaymentMethodTransfer,
		PaymentMethodCredit, PaymentMethodFiado:
		return true
	}
	return false
}

// IsMoneyTender indica si el medio de pago ingresa dinero a una cuenta (genera asiento de caja).
func IsMoneyTender(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodPix || m == PaymentMethodCard || m == PaymentMethodTransfer
}

// Sale representa una venta del salón (servicios y productos).
// Items solo se editan en borrador; Payments se fija una única vez al pasar a pagada.
type Sale struct {
	ID            string
	CustomerID    string // vacío = venta sin cliente
	AppointmentID string
	Status        string
	Items         []SaleItem
	Payments      []SalePayment
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

// SaleItem línea de la venta.
type SaleItem struct {
	ID         string
	ItemType   string // service, product
	ProductID  string
	ServiceID  string
	Name       string
	Qty        int64
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// SalePayment pago registrado al confirmar la venta. Inmutable.
type SalePayment struct {
	ID        string
	SaleID    string
	Method    string
	Amount    decimal.Decimal
	CashGiven *decimal.Decimal // solo efectivo
	Change    *decimal.Decimal // solo efectivo
	CreatedAt time.Time
}

// NewSale crea una venta en borrador sin ítems.
func NewSale(id, customerID, appointmentID, notes string, now time.Time) *Sale {
	return &Sale{
		ID:            id,
		CustomerID:    customerID,
		AppointmentID: appointmentID,
		Status:        SaleStatusDraft,
		Subtotal:      decimal.Zero,
		Discount:      decimal.Zero,
		Total:         decimal.Zero,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsDraft indica si la venta aún es editable.
func (s *Sale) IsDraft() bool { return s.Status == SaleStatusDraft }

// HasCustomer indica si la venta tiene cliente asociado.
func (s *Sale) HasCustomer() bool { return s.CustomerID != "" }

func (s *Sale) ensureDraft() error {
	if s.IsDraft() {
		return nil
	}
	return domain.ErrSaleNotEditable
}

// Item busca una línea por ID.
func (s *Sale) Item(itemID string) (*SaleItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// AddItem agrega una línea y recalcula totales.
func (s *Sale) AddItem(item SaleItem, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}
	item.UnitPrice = money.Round(item.UnitPrice)
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(item.Qty))
	s.Items = append(s.Items, item)
	s.recalculate(now)
	return nil
}

// RemoveItem quita una línea. Antes del pago no tiene efecto en el ledger.
func (s *Sale) RemoveItem(itemID string, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.recalculate(now)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

// UpdateItemQty cambia la cantidad de una línea.
func (s *Sale) UpdateItemQty(itemID string, qty int64, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	item, ok := s.Item(itemID)
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Qty = qty
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(qty))
	s.recalculate(now)
	return nil
}

// UpdateItemPrice cambia el precio unitario de una línea.
func (s *Sale) UpdateItemPrice(itemID string, unitPrice decimal.Decimal, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return domain.ErrInvalidAmount
	}
	item, ok := s.Item(itemID)
	if !ok {
		return domain.ErrItemNotFound
	}
	item.UnitPrice = money.Round(unitPrice)
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(item.Qty))
	s.recalculate(now)
	return nil
}

// SetDiscount fija el descuento global; el total nunca queda negativo.
func (s *Sale) SetDiscount(discount decimal.Decimal, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if discount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	s.Discount = money.Round(discount)
	s.recalculate(now)
	return nil
}

// SetCustomer asocia (o quita, con "") el cliente de la venta.
func (s *Sale) SetCustomer(customerID string, now time.Time) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	s.CustomerID = customerID
	s.UpdatedAt = now
	return nil
}

func (s *Sale) recalculate(now time.Time) {
	subtotal := decimal.Zero
	for _, it := range s.Items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	s.Subtotal = money.Round(subtotal)
	s.Total = money.NonNegative(s.Subtotal.Sub(s.Discount))
	s.UpdatedAt = now
}

func validateItem(item SaleItem) error {
	if item.ID == "" || item.Name == "" {
		return domain.ErrInvalidInput
	}
	switch item.ItemType {
	case ItemTypeProduct:
		if item.ProductID == "" {
			return domain.ErrInvalidInput
		}
	case ItemTypeService:
	default:
		return domain.ErrInvalidInput
	}
	if item.Qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return domain.ErrInvalidAmount
	}
	return nil
}

// ProductQuantities agrega las cantidades de productos por ID.
func (s *Sale) ProductQuantities() map[string]int64 {
	out := make(map[string]int64)
	for _, it := range s.Items {
		if it.ItemType == ItemTypeProduct {
			out[it.ProductID] += it.Qty
		}
	}
	return out
}

// ProductIDs devuelve los productos de la venta ordenados (orden estable de bloqueo).
func (s *Sale) ProductIDs() []string {
	qty := s.ProductQuantities()
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PaymentsTotal suma los pagos registrados.
func (s *Sale) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalChange suma el vuelto de los pagos en efectivo.
func (s *Sale) TotalChange() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Change != nil {
			total = total.Add(*p.Change)
		}
	}
	return total
}

// CanTransition valida draft → paid → refunded.
func (s *Sale) CanTransition(to string) error {
	switch {
	case s.Status == SaleStatusDraft && to == SaleStatusPaid:
		return nil
	case s.Status == SaleStatusPaid && to == SaleStatusRefunded:
		return nil
	case s.Status == SaleStatusPaid && to == SaleStatusPaid:
		return domain.ErrSaleAlreadyPaid
	case s.Status == SaleStatusRefunded:
		return domain.ErrSaleRefunded
	default:
		return domain.ErrInvalidStateTransition
	}
}

// MarkPaid fija los pagos y pasa la venta a pagada. Exige Σ pagos == total.
func (s *Sale) MarkPaid(payments []SalePayment, now time.Time) error {
	if err := s.CanTransition(SaleStatusPaid); err != nil {
		return err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	if !total.Equal(s.Total) {
		return domain.ErrPaymentNotFullyCovered
	}
	s.Payments = append([]SalePayment(nil), payments...)
	s.Status = SaleStatusPaid
	s.PaidAt = &now
	s.UpdatedAt = now
	return nil
}

// MarkRefunded pasa la venta pagada a reembolsada. Los pagos se conservan.
func (s *Sale) MarkRefunded(now time.Time) error {
	if err := s.CanTransition(SaleStatusRefunded); err != nil {
		return err
	}
	s.Status = SaleStatusRefunded
	s.RefundedAt = &now
	s.UpdatedAt = now
	return nil
}

// Clone copia profunda (los repositorios en memoria no comparten slices con el llamador).
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]SaleItem(nil), s.Items...)
	c.Payments = nil
	if len(s.Payments) > 0 {
		c.Payments = make([]SalePayment, len(s.Payments))
	}
	for i, p := range s.Payments {
		c.Payments[i] = p
		if p.CashGiven != nil {
			v := *p.CashGiven
			c.Payments[i].CashGiven = &v
		}
		if p.Change != nil {
			v := *p.Change
			c.Payments[i].Change = &v
		}
	}
	if s.PaidAt != nil {
		t := *s.PaidAt
		c.PaidAt = &t
	}
	if s.RefundedAt != nil {
		t := *s.RefundedAt
		c.RefundedAt = &t
	}
	return &c
}
