package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// StockReader lectura del stock derivado (puede venir de caché; solo para pre-chequeos).
type StockReader interface {
	CurrentStock(ctx context.Context, productID string) (int64, error)
}

// CreditReader lectura del saldo de la billetera del cliente.
type CreditReader interface {
	Balance(ctx context.Context, clientID string) (decimal.Decimal, error)
}

// InventoryUseCase integra el checkout con el ledger de stock.
// RegisterOUTInTx re-verifica el stock vivo con el repositorio del caller (misma transacción);
// si retorna error (ej: *domain.StockError) el caller hace rollback.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		stockRepo repository.StockMovementRepository,
		productID string,
		quantity int64,
		ref entity.Reference,
		userID string,
		now time.Time,
	) (*entity.StockMovement, error)
	Invalidate(ctx context.Context, productIDs ...string)
}

// CreditUseCase integra el checkout con el ledger de crédito.
type CreditUseCase interface {
	CreditReader
	DebitInTx(
		ctx context.Context,
		creditRepo repository.CreditMovementRepository,
		clientID string,
		amount decimal.Decimal,
		origin, referenceID, userID string,
		requireBalance bool,
		now time.Time,
	) (*entity.CreditMovement, error)
}

// CashUseCase integra el checkout con el ledger de caja.
type CashUseCase interface {
	RecordTenderInTx(
		ctx context.Context,
		cashRepo repository.CashEntryRepository,
		method string,
		amount decimal.Decimal,
		ref entity.Reference,
		description string,
		now time.Time,
	) (*entity.CashEntry, error)
}
