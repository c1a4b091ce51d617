package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de crédito del cliente.
const (
	CreditTypeCredit = "CREDIT"
	CreditTypeDebit  = "DEBIT"
)

// Orígenes de movimientos de crédito.
const (
	CreditOriginSalePayment = "sale-payment"
	CreditOriginFiado       = "fiado"
	CreditOriginDeposit     = "deposit"
	CreditOriginFiadoPaid   = "fiado-payment"
	CreditOriginRefund      = "refund"
	CreditOriginManual      = "manual"
)

// CreditMovement es un evento inmutable de la billetera del cliente.
// Saldo = Σ CREDIT − Σ DEBIT; un saldo negativo representa deuda (fiado).
type CreditMovement struct {
	ID          string
	ClientID    string
	Type        string // CREDIT, DEBIT
	Amount      decimal.Decimal
	Origin      string
	Note        string
	ReferenceID string
	CreatedBy   string
	CreatedAt   time.Time
}

// Signed devuelve el monto con signo según el tipo.
func (m *CreditMovement) Signed() decimal.Decimal {
	if m.Type == CreditTypeDebit {
		return m.Amount.Neg()
	}
	return m.Amount
}

// ValidCreditMovementType indica si el tipo es CREDIT o DEBIT.
func ValidCreditMovementType(t string) bool {
	return t == CreditTypeCredit || t == CreditTypeDebit
}
