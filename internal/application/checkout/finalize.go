package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// Finalize confirma la sesión en una única transacción:
//  1. salida de stock por cada ítem de producto (re-chequeo con el producto bloqueado)
//  2. débito de crédito por cada medio "credit" (re-chequeo del saldo vivo)
//  3. débito de fiado por cada medio "fiado"
//  4. asiento de caja por cada medio en dinero
//  5. pagos de la venta, tal cual las entradas
//  6. estado → paid
//
// Si cualquier paso falla no queda nada escrito.
func (s *Session) Finalize(ctx context.Context, userID string) (*entity.Sale, error) {
	if !s.IsFullyCovered() {
		return nil, domain.ErrPaymentNotFullyCovered
	}
	if err := s.sale.CanTransition(entity.SaleStatusPaid); err != nil {
		return nil, err
	}

	a := s.alloc
	now := time.Now().UTC()
	ref := entity.Reference{Type: entity.ReferenceTypeSale, ID: s.sale.ID}
	entries := s.Entries()
	var paid *entity.Sale

	err := a.txRunner.Run(ctx, func(
		stockRepo repository.StockMovementRepository,
		creditRepo repository.CreditMovementRepository,
		cashRepo repository.CashEntryRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, s.sale.ID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		// El estado es la llave de idempotencia: una venta ya pagada no re-aplica efectos.
		if err := sale.CanTransition(entity.SaleStatusPaid); err != nil {
			return err
		}
		// La venta cambió desde que se abrió la sesión: los montos ya no cubren el total.
		if !sale.Total.Equal(s.sale.Total) {
			return domain.ErrPaymentNotFullyCovered
		}

		// 1) Stock: bloquear en orden estable y luego descontar por ítem.
		for _, productID := range sale.ProductIDs() {
			if err := stockRepo.LockProduct(ctx, productID); err != nil {
				return err
			}
		}
		for _, item := range sale.Items {
			if item.ItemType != entity.ItemTypeProduct {
				continue
			}
			if _, err := a.inventory.RegisterOUTInTx(ctx, stockRepo, item.ProductID, item.Qty, ref, userID, now); err != nil {
				return err
			}
		}

		// 2) Crédito, siempre antes que cualquier fiado: el re-chequeo ve el saldo previo a la deuda.
		for _, e := range entries {
			if e.Method != entity.PaymentMethodCredit {
				continue
			}
			if !sale.HasCustomer() {
				return domain.ErrCreditExceeded
			}
			if _, err := a.credit.DebitInTx(ctx, creditRepo, sale.CustomerID, e.Amount,
				entity.CreditOriginSalePayment, sale.ID, userID, true, now); err != nil {
				return err
			}
		}

		// 3) Fiado.
		for _, e := range entries {
			if e.Method != entity.PaymentMethodFiado {
				continue
			}
			if !sale.HasCustomer() {
				return domain.ErrFiadoRequiresCustomer
			}
			if _, err := a.credit.DebitInTx(ctx, creditRepo, sale.CustomerID, e.Amount,
				entity.CreditOriginFiado, sale.ID, userID, false, now); err != nil {
				return err
			}
		}

		// 4) Caja.
		for _, e := range entries {
			if !entity.IsMoneyTender(e.Method) {
				continue
			}
			if _, err := a.cash.RecordTenderInTx(ctx, cashRepo, e.Method, e.Amount, ref, "venta "+sale.ID, now); err != nil {
				return err
			}
		}

		// 5) y 6) Pagos y transición de estado.
		payments := toPayments(sale.ID, entries, now)
		if err := sale.MarkPaid(payments, now); err != nil {
			return err
		}
		if err := saleRepo.CreatePayments(ctx, sale.ID, payments); err != nil {
			return err
		}
		if err := saleRepo.UpdateStatus(ctx, sale.ID, entity.SaleStatusDraft, entity.SaleStatusPaid, now); err != nil {
			return err
		}
		paid = sale
		return nil
	})
	if err != nil {
		a.log.Warn().Err(err).Str("sale_id", s.sale.ID).Str("code", domain.Code(err)).Msg("checkout rechazado")
		return nil, err
	}

	s.sale = paid
	a.inventory.Invalidate(ctx, paid.ProductIDs()...)
	a.log.Info().
		Str("sale_id", paid.ID).
		Str("total", paid.Total.StringFixed(2)).
		Int("payments", len(paid.Payments)).
		Msg("venta pagada")
	return paid, nil
}

// Checkout abre una sesión, agrega los medios en orden y confirma.
func (a *PaymentAllocator) Checkout(ctx context.Context, saleID, userID string, tenders []TenderInput) (*entity.Sale, Summary, error) {
	session, err := a.Begin(ctx, saleID)
	if err != nil {
		return nil, Summary{}, err
	}
	for _, t := range tenders {
		if _, err := session.AddEntry(ctx, t); err != nil {
			return nil, Summary{}, err
		}
	}
	summary, err := session.Summary(ctx)
	if err != nil {
		return nil, Summary{}, err
	}
	sale, err := session.Finalize(ctx, userID)
	if err != nil {
		return nil, Summary{}, err
	}
	return sale, summary, nil
}

// Preview aplica los medios sin confirmar y devuelve los valores derivados.
func (a *PaymentAllocator) Preview(ctx context.Context, saleID string, tenders []TenderInput) (Summary, error) {
	session, err := a.Begin(ctx, saleID)
	if err != nil {
		return Summary{}, err
	}
	for _, t := range tenders {
		if _, err := session.AddEntry(ctx, t); err != nil {
			return Summary{}, err
		}
	}
	return session.Summary(ctx)
}

func toPayments(saleID string, entries []TenderEntry, now time.Time) []entity.SalePayment {
	payments := make([]entity.SalePayment, 0, len(entries))
	for _, e := range entries {
		p := entity.SalePayment{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Method:    e.Method,
			Amount:    e.Amount,
			CreatedAt: now,
		}
		if e.Method == entity.PaymentMethodCash && e.CashGiven != nil {
			given := *e.CashGiven
			change := e.Change()
			p.CashGiven = &given
			p.Change = &change
		}
		payments = append(payments, p)
	}
	return payments
}
