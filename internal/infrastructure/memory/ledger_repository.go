package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

type stockRepo struct {
	store *Store
	tx    *state
}

func (r *stockRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if m == nil || m.ID == "" {
		return domain.ErrInvalidInput
	}
	cp := *m
	return r.store.view(r.tx, func(st *state) error {
		st.stock = append(st.stock, &cp)
		return nil
	})
}

func (r *stockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.store.view(r.tx, func(st *state) error {
		for i := len(st.stock) - 1; i >= 0; i-- {
			if st.stock[i].ProductID == productID {
				cp := *st.stock[i]
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	var level int64
	err := r.store.view(r.tx, func(st *state) error {
		for _, m := range st.stock {
			if m.ProductID == productID {
				level += m.Signed()
			}
		}
		return nil
	})
	return level, err
}

// LockProduct no hace nada: Run ya tiene el mutex del store.
func (r *stockRepo) LockProduct(_ context.Context, _ string) error { return nil }

type creditRepo struct {
	store *Store
	tx    *state
}

func (r *creditRepo) Create(_ context.Context, m *entity.CreditMovement) error {
	if m == nil || m.ID == "" {
		return domain.ErrInvalidInput
	}
	cp := *m
	return r.store.view(r.tx, func(st *state) error {
		st.credit = append(st.credit, &cp)
		return nil
	})
}

func (r *creditRepo) ListByClient(_ context.Context, clientID string) ([]*entity.CreditMovement, error) {
	var out []*entity.CreditMovement
	err := r.store.view(r.tx, func(st *state) error {
		for i := len(st.credit) - 1; i >= 0; i-- {
			if st.credit[i].ClientID == clientID {
				cp := *st.credit[i]
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *creditRepo) BalanceByClient(_ context.Context, clientID string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.store.view(r.tx, func(st *state) error {
		for _, m := range st.credit {
			if m.ClientID == clientID {
				balance = balance.Add(m.Signed())
			}
		}
		return nil
	})
	return balance, err
}

func (r *creditRepo) LockClient(_ context.Context, _ string) error { return nil }

type cashRepo struct {
	store *Store
	tx    *state
}

func (r *cashRepo) Create(_ context.Context, e *entity.CashEntry) error {
	if e == nil || e.ID == "" {
		return domain.ErrInvalidInput
	}
	cp := *e
	return r.store.view(r.tx, func(st *state) error {
		st.cash = append(st.cash, &cp)
		return nil
	})
}

func (r *cashRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.CashEntry, error) {
	var out []*entity.CashEntry
	err := r.store.view(r.tx, func(st *state) error {
		for i := len(st.cash) - 1; i >= 0; i-- {
			if st.cash[i].AccountID == accountID {
				cp := *st.cash[i]
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *cashRepo) BalanceByAccount(_ context.Context, accountID string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.store.view(r.tx, func(st *state) error {
		for _, e := range st.cash {
			if e.AccountID != accountID {
				continue
			}
			if e.Type == entity.CashEntryOUT {
				balance = balance.Sub(e.Amount)
			} else {
				balance = balance.Add(e.Amount)
			}
		}
		return nil
	})
	return balance, err
}
