package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// CreditMovementRepository define el puerto de persistencia del ledger de crédito de clientes.
type CreditMovementRepository interface {
	Create(ctx context.Context, movement *entity.CreditMovement) error
	// ListByClient devuelve los movimientos del cliente, más recientes primero.
	ListByClient(ctx context.Context, clientID string) ([]*entity.CreditMovement, error)
	// BalanceByClient pliega Σ CREDIT − Σ DEBIT.
	BalanceByClient(ctx context.Context, clientID string) (decimal.Decimal, error)
	// LockClient serializa escritores del mismo cliente hasta el fin de la transacción.
	LockClient(ctx context.Context, clientID string) error
}
