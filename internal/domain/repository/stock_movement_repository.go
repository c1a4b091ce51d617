package repository

import (
	"context"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de stock (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, más recientes primero.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	// SumByProduct pliega Σ IN − Σ OUT (0 si no hay movimientos).
	SumByProduct(ctx context.Context, productID string) (int64, error)
	// LockProduct serializa escritores del mismo producto hasta el fin de la transacción.
	LockProduct(ctx context.Context, productID string) error
}
