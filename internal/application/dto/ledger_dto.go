package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditMovementRequest body para POST /api/clients/:clientId/credit/movements.
// Origin "deposit" y "fiado-payment" tienen reglas propias (abono y pago de deuda).
type CreditMovementRequest struct {
	Type   string          `json:"type" validate:"required,oneof=CREDIT DEBIT"`
	Amount decimal.Decimal `json:"amount"`
	Origin string          `json:"origin" validate:"omitempty,max=30"`
	Note   string          `json:"note" validate:"omitempty,max=500"`
}

// CreditMovementResponse salida de un movimiento de crédito.
type CreditMovementResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Origin      string          `json:"origin"`
	Note        string          `json:"note,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreditBalanceResponse saldo derivado del cliente (negativo = deuda de fiado).
type CreditBalanceResponse struct {
	ClientID string          `json:"client_id"`
	Balance  decimal.Decimal `json:"balance"`
	Debt     decimal.Decimal `json:"debt"`
}

// CreditMovementListResponse movimientos del cliente, más recientes primero.
type CreditMovementListResponse struct {
	ClientID string                   `json:"client_id"`
	Balance  decimal.Decimal          `json:"balance"`
	Items    []CreditMovementResponse `json:"items"`
	Page     PageResponse             `json:"page"`
}

// CashBalanceResponse saldo de una cuenta de caja.
type CashBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}
