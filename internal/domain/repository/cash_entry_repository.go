package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// CashEntryRepository define el puerto del ledger de caja (sumidero de pagos en dinero).
type CashEntryRepository interface {
	Create(ctx context.Context, entry *entity.CashEntry) error
	ListByAccount(ctx context.Context, accountID string) ([]*entity.CashEntry, error)
	BalanceByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}
