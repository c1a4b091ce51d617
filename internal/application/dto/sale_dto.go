package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta (servicio o producto).
type SaleItemRequest struct {
	ItemType  string          `json:"item_type" validate:"required,oneof=service product"`
	ProductID string          `json:"product_id" validate:"required_if=ItemType product"`
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name" validate:"required,max=200"`
	Qty       int64           `json:"qty" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	AppointmentID string            `json:"appointment_id"`
	Notes         string            `json:"notes" validate:"omitempty,max=1000"`
	Items         []SaleItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateSaleRequest body para PATCH /api/sales/:id. Campos nil no se modifican.
type UpdateSaleRequest struct {
	CustomerID *string          `json:"customer_id"`
	Discount   *decimal.Decimal `json:"discount"`
	Notes      *string          `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateSaleItemRequest body para PATCH /api/sales/:id/items/:itemId.
type UpdateSaleItemRequest struct {
	Qty       *int64           `json:"qty" validate:"omitempty,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// TenderRequest un medio de pago dentro de un checkout.
type TenderRequest struct {
	ID        string           `json:"id"`
	Method    string           `json:"method" validate:"required,oneof=cash pix card transfer credit fiado"`
	Amount    decimal.Decimal  `json:"amount"`
	CashGiven *decimal.Decimal `json:"cash_given"`
}

// CheckoutRequest body para POST /api/sales/:id/checkout y /payments/preview.
type CheckoutRequest struct {
	Tenders []TenderRequest `json:"tenders" validate:"dive"`
}

// SaleItemResponse salida de una línea de venta.
type SaleItemResponse struct {
	ID         string          `json:"id"`
	ItemType   string          `json:"item_type"`
	ProductID  string          `json:"product_id,omitempty"`
	ServiceID  string          `json:"service_id,omitempty"`
	Name       string          `json:"name"`
	Qty        int64           `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SalePaymentResponse salida de un pago confirmado.
type SalePaymentResponse struct {
	ID        string           `json:"id"`
	Method    string           `json:"method"`
	Amount    decimal.Decimal  `json:"amount"`
	CashGiven *decimal.Decimal `json:"cash_given,omitempty"`
	Change    *decimal.Decimal `json:"change,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id,omitempty"`
	AppointmentID string                `json:"appointment_id,omitempty"`
	Status        string                `json:"status"`
	Items         []SaleItemResponse    `json:"items"`
	Payments      []SalePaymentResponse `json:"payments"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	RefundedAt    *time.Time            `json:"refunded_at,omitempty"`
}

// TenderEntryResponse medio de pago aceptado en una sesión de asignación.
type TenderEntryResponse struct {
	ID        string           `json:"id"`
	Method    string           `json:"method"`
	Amount    decimal.Decimal  `json:"amount"`
	CashGiven *decimal.Decimal `json:"cash_given,omitempty"`
	Change    decimal.Decimal  `json:"change"`
}

// PaymentSummaryResponse valores derivados de la asignación de pagos.
type PaymentSummaryResponse struct {
	Total           decimal.Decimal       `json:"total"`
	EntriesTotal    decimal.Decimal       `json:"entries_total"`
	Remaining       decimal.Decimal       `json:"remaining"`
	IsFullyCovered  bool                  `json:"is_fully_covered"`
	UsedCredit      decimal.Decimal       `json:"used_credit"`
	AvailableCredit decimal.Decimal       `json:"available_credit"`
	TotalChange     decimal.Decimal       `json:"total_change"`
	Entries         []TenderEntryResponse `json:"entries"`
}

// CheckoutResponse venta pagada más el resumen de la asignación.
type CheckoutResponse struct {
	Sale    SaleResponse           `json:"sale"`
	Summary PaymentSummaryResponse `json:"summary"`
}
