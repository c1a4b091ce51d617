package ports

import (
	"context"

	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo atómica, pasando repositorios
// atados a ella. Si fn retorna error nada de lo escrito queda visible (rollback).
// Cada backend (memoria, SQLite, PostgreSQL) provee su implementación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockMovementRepository,
		creditRepo repository.CreditMovementRepository,
		cashRepo repository.CashEntryRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
