package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

type saleRepo struct {
	store *Store
	tx    *state
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale == nil || sale.ID == "" {
		return domain.ErrInvalidInput
	}
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return fmt.Errorf("%w: venta %s ya existe", domain.ErrConflict, sale.ID)
		}
		st.sales[sale.ID] = sale.Clone()
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.store.view(r.tx, func(st *state) error {
		out = st.sales[id].Clone()
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de Run el mutex ya serializa.
func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) UpdateDraft(_ context.Context, sale *entity.Sale) error {
	if sale == nil {
		return domain.ErrInvalidInput
	}
	return r.store.view(r.tx, func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrSaleNotFound
		}
		if cur.Status != entity.SaleStatusDraft {
			return domain.ErrSaleNotEditable
		}
		next := sale.Clone()
		next.Status = cur.Status
		next.Payments = nil
		next.CreatedAt = cur.CreatedAt
		st.sales[sale.ID] = next
		return nil
	})
}

func (r *saleRepo) CreatePayments(_ context.Context, saleID string, payments []entity.SalePayment) error {
	return r.store.view(r.tx, func(st *state) error {
		cur, ok := st.sales[saleID]
		if !ok {
			return domain.ErrSaleNotFound
		}
		if len(cur.Payments) > 0 {
			return fmt.Errorf("%w: la venta %s ya tiene pagos", domain.ErrConflict, saleID)
		}
		next := cur.Clone()
		tmp := &entity.Sale{Payments: payments}
		next.Payments = tmp.Clone().Payments
		st.sales[saleID] = next
		return nil
	})
}

func (r *saleRepo) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	return r.store.view(r.tx, func(st *state) error {
		cur, ok := st.sales[id]
		if !ok {
			return domain.ErrSaleNotFound
		}
		if cur.Status != from {
			return fmt.Errorf("%w: venta %s en estado %s, se esperaba %s", domain.ErrConflict, id, cur.Status, from)
		}
		next := cur.Clone()
		next.Status = to
		next.UpdatedAt = at
		switch to {
		case entity.SaleStatusPaid:
			next.PaidAt = &at
		case entity.SaleStatusRefunded:
			next.RefundedAt = &at
		}
		st.sales[id] = next
		return nil
	})
}
