package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/ledger"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// StockLedger registra movimientos de inventario (solo inserción) y deriva el stock actual
// plegando el ledger. El caché, si existe, es consultivo y se invalida tras cada commit.
type StockLedger struct {
	txRunner ports.TxRunner
	movRepo  repository.StockMovementRepository
	cache    ports.StockCache
	log      zerolog.Logger
}

// NewStockLedger construye el ledger. cache puede ser nil.
func NewStockLedger(
	txRunner ports.TxRunner,
	movRepo repository.StockMovementRepository,
	cache ports.StockCache,
	log zerolog.Logger,
) *StockLedger {
	return &StockLedger{
		txRunner: txRunner,
		movRepo:  movRepo,
		cache:    cache,
		log:      log,
	}
}

// MovementInput entrada para registrar un movimiento manual (compra, ajuste).
type MovementInput struct {
	ProductID string
	Type      string // IN, OUT
	Quantity  int64
	Reason    string
	Reference entity.Reference
	UserID    string
}

// RecordMovement valida y agrega un movimiento inmutable en su propia transacción.
func (l *StockLedger) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if strings.TrimSpace(input.ProductID) == "" || !entity.ValidStockMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Reason == "" {
		input.Reason = entity.StockReasonAdjustment
	}
	if input.Reference.Type == "" {
		input.Reference.Type = entity.ReferenceTypeManual
	}

	now := time.Now().UTC()
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockMovementRepository,
		_ repository.CreditMovementRepository,
		_ repository.CashEntryRepository,
		_ repository.SaleRepository,
	) error {
		if err := stockRepo.LockProduct(ctx, input.ProductID); err != nil {
			return err
		}
		mov = newMovement(input.ProductID, input.Type, input.Quantity, input.Reason, input.Reference, input.UserID, now)
		return stockRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	l.Invalidate(ctx, input.ProductID)
	return mov, nil
}

// RegisterOUTInTx bloquea el producto, re-verifica el stock vivo y registra la salida usando
// el repositorio del caller (misma transacción). Con *domain.StockError el caller hace rollback.
func (l *StockLedger) RegisterOUTInTx(
	ctx context.Context,
	stockRepo repository.StockMovementRepository,
	productID string,
	quantity int64,
	ref entity.Reference,
	userID string,
	now time.Time,
) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := stockRepo.LockProduct(ctx, productID); err != nil {
		return nil, err
	}
	available, err := stockRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if available < quantity {
		return nil, &domain.StockError{ProductID: productID, Available: available, Requested: quantity}
	}
	mov := newMovement(productID, entity.MovementTypeOUT, quantity, entity.StockReasonSale, ref, userID, now)
	if err := stockRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterINInTx registra una entrada dentro de la transacción del caller (reembolsos).
func (l *StockLedger) RegisterINInTx(
	ctx context.Context,
	stockRepo repository.StockMovementRepository,
	productID string,
	quantity int64,
	reason string,
	ref entity.Reference,
	userID string,
	now time.Time,
) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := stockRepo.LockProduct(ctx, productID); err != nil {
		return nil, err
	}
	mov := newMovement(productID, entity.MovementTypeIN, quantity, reason, ref, userID, now)
	if err := stockRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CurrentStock pliega el ledger del producto (0 si no tiene movimientos).
func (l *StockLedger) CurrentStock(ctx context.Context, productID string) (int64, error) {
	if productID == "" {
		return 0, domain.ErrInvalidInput
	}
	if l.cache == nil {
		return l.movRepo.SumByProduct(ctx, productID)
	}
	level, err := l.cache.Load(ctx, productID, func(ctx context.Context) (int64, error) {
		return l.movRepo.SumByProduct(ctx, productID)
	})
	if err != nil {
		l.log.Warn().Err(err).Str("product_id", productID).Msg("caché de stock no disponible, leyendo ledger")
		return l.movRepo.SumByProduct(ctx, productID)
	}
	return level, nil
}

// ListMovements devuelve los movimientos del producto, más recientes primero.
func (l *StockLedger) ListMovements(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.ListByProduct(ctx, productID)
}

// Rebuild recalcula el stock desde el ledger y reescribe el caché.
func (l *StockLedger) Rebuild(ctx context.Context, productID string) (int64, error) {
	movs, err := l.ListMovements(ctx, productID)
	if err != nil {
		return 0, err
	}
	level := ledger.StockLevel(movs)
	if l.cache != nil {
		if err := l.cache.Set(ctx, productID, level); err != nil {
			l.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo reescribir el caché de stock")
		}
	}
	return level, nil
}

// Invalidate descarta el stock cacheado de los productos (tras un commit).
func (l *StockLedger) Invalidate(ctx context.Context, productIDs ...string) {
	if l.cache == nil || len(productIDs) == 0 {
		return
	}
	if err := l.cache.Invalidate(ctx, productIDs...); err != nil {
		l.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("no se pudo invalidar el caché de stock")
	}
}

func newMovement(productID, movType string, qty int64, reason string, ref entity.Reference, userID string, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     productID,
		Type:          movType,
		Quantity:      qty,
		Reason:        reason,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
}
