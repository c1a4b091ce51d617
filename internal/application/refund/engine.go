package refund

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// InventoryUseCase integra el reembolso con el ledger de stock.
type InventoryUseCase interface {
	RegisterINInTx(
		ctx context.Context,
		stockRepo repository.StockMovementRepository,
		productID string,
		quantity int64,
		reason string,
		ref entity.Reference,
		userID string,
		now time.Time,
	) (*entity.StockMovement, error)
	Invalidate(ctx context.Context, productIDs ...string)
}

// CreditUseCase abona a la billetera del cliente (solo con ReverseCreditTenders).
type CreditUseCase interface {
	CreditInTx(
		ctx context.Context,
		creditRepo repository.CreditMovementRepository,
		clientID string,
		amount decimal.Decimal,
		origin, note, referenceID, userID string,
		now time.Time,
	) (*entity.CreditMovement, error)
}

// Config política de reembolso.
type Config struct {
	// ReverseCreditTenders abona de vuelta los pagos con crédito y fiado. Por defecto false:
	// el reembolso solo revierte inventario y la conciliación del crédito es un paso contable manual.
	ReverseCreditTenders bool
}

// Engine revierte el efecto de inventario de una venta pagada sin borrar historia:
// agrega entradas (IN) y conserva los pagos tal cual para auditoría.
type Engine struct {
	txRunner  ports.TxRunner
	inventory InventoryUseCase
	credit    CreditUseCase
	cfg       Config
	log       zerolog.Logger
}

// NewEngine construye el motor de reembolsos. credit puede ser nil si la política no revierte crédito.
func NewEngine(txRunner ports.TxRunner, inventory InventoryUseCase, credit CreditUseCase, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{txRunner: txRunner, inventory: inventory, credit: credit, cfg: cfg, log: log}
}

// Refund reembolsa una venta pagada en una única transacción.
func (e *Engine) Refund(ctx context.Context, saleID, userID string) (*entity.Sale, error) {
	if saleID == "" {
		return nil, domain.ErrSaleNotFound
	}
	now := time.Now().UTC()
	var refunded *entity.Sale

	err := e.txRunner.Run(ctx, func(
		stockRepo repository.StockMovementRepository,
		creditRepo repository.CreditMovementRepository,
		_ repository.CashEntryRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if err := sale.CanTransition(entity.SaleStatusRefunded); err != nil {
			return err
		}

		ref := entity.Reference{Type: entity.ReferenceTypeSale, ID: sale.ID}
		for _, item := range sale.Items {
			if item.ItemType != entity.ItemTypeProduct {
				continue
			}
			if _, err := e.inventory.RegisterINInTx(ctx, stockRepo, item.ProductID, item.Qty,
				entity.StockReasonRefund, ref, userID, now); err != nil {
				return err
			}
		}

		if e.cfg.ReverseCreditTenders && e.credit != nil && sale.HasCustomer() {
			for _, p := range sale.Payments {
				if p.Method != entity.PaymentMethodCredit && p.Method != entity.PaymentMethodFiado {
					continue
				}
				if _, err := e.credit.CreditInTx(ctx, creditRepo, sale.CustomerID, p.Amount,
					entity.CreditOriginRefund, "reembolso de pago "+p.Method, sale.ID, userID, now); err != nil {
					return err
				}
			}
		}

		if err := sale.MarkRefunded(now); err != nil {
			return err
		}
		if err := saleRepo.UpdateStatus(ctx, sale.ID, entity.SaleStatusPaid, entity.SaleStatusRefunded, now); err != nil {
			return err
		}
		refunded = sale
		return nil
	})
	if err != nil {
		e.log.Warn().Err(err).Str("sale_id", saleID).Str("code", domain.Code(err)).Msg("reembolso rechazado")
		return nil, err
	}

	e.inventory.Invalidate(ctx, refunded.ProductIDs()...)
	e.log.Info().
		Str("sale_id", refunded.ID).
		Bool("credit_reversed", e.cfg.ReverseCreditTenders).
		Msg("venta reembolsada")
	return refunded, nil
}
