package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/ledger"
)

func TestStockLevel(t *testing.T) {
	movs := []*entity.StockMovement{
		{Type: entity.MovementTypeIN, Quantity: 10},
		{Type: entity.MovementTypeOUT, Quantity: 3},
		{Type: entity.MovementTypeIN, Quantity: 2},
		{Type: entity.MovementTypeOUT, Quantity: 4},
	}
	assert.Equal(t, int64(5), ledger.StockLevel(movs))
	assert.Equal(t, int64(0), ledger.StockLevel(nil), "sin movimientos el stock es cero")
}

func TestCreditBalance_PuedeSerNegativo(t *testing.T) {
	movs := []*entity.CreditMovement{
		{Type: entity.CreditTypeCredit, Amount: decimal.NewFromInt(20)},
		{Type: entity.CreditTypeDebit, Amount: decimal.NewFromInt(20)},
		{Type: entity.CreditTypeDebit, Amount: decimal.RequireFromString("30.50")},
	}
	assert.Equal(t, "-30.50", ledger.CreditBalance(movs).StringFixed(2))
	assert.True(t, ledger.CreditBalance(nil).IsZero())
}

func TestCashBalance(t *testing.T) {
	entries := []*entity.CashEntry{
		{Type: entity.CashEntryIN, Amount: decimal.NewFromInt(50)},
		{Type: entity.CashEntryIN, Amount: decimal.RequireFromString("12.25")},
		{Type: entity.CashEntryOUT, Amount: decimal.NewFromInt(2)},
	}
	assert.Equal(t, "60.25", ledger.CashBalance(entries).StringFixed(2))
}
