// Package ledger contiene los pliegues puros (fold) que derivan saldos desde los movimientos.
// Ningún saldo se guarda como verdad: cualquier contador cacheado debe coincidir con estos valores.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// StockLevel = Σ IN − Σ OUT.
func StockLevel(movements []*entity.StockMovement) int64 {
	var level int64
	for _, m := range movements {
		level += m.Signed()
	}
	return level
}

// CreditBalance = Σ CREDIT − Σ DEBIT. Puede ser negativo (deuda).
func CreditBalance(movements []*entity.CreditMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		balance = balance.Add(m.Signed())
	}
	return balance
}

// CashBalance = Σ IN − Σ OUT de una cuenta.
func CashBalance(entries []*entity.CashEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.Type == entity.CashEntryOUT {
			balance = balance.Sub(e.Amount)
			continue
		}
		balance = balance.Add(e.Amount)
	}
	return balance
}
