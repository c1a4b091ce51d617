package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento de caja.
const (
	CashEntryIN  = "IN"
	CashEntryOUT = "OUT"
)

// CashEntry asiento contable sobre una cuenta (caja, banco, adquirente) generado por un pago.
type CashEntry struct {
	ID            string
	AccountID     string
	Type          string // IN, OUT
	Method        string // cash, pix, card, transfer
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Description   string
	CreatedAt     time.Time
}
