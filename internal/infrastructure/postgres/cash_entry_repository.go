package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

var _ repository.CashEntryRepository = (*CashEntryRepo)(nil)

// CashEntryRepo asientos de caja sobre PostgreSQL.
type CashEntryRepo struct {
	q Querier
}

// NewCashEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashEntryRepository(q Querier) *CashEntryRepo {
	return &CashEntryRepo{q: q}
}

func (r *CashEntryRepo) Create(ctx context.Context, e *entity.CashEntry) error {
	query := `
		INSERT INTO cash_entries (id, account_id, type, method, amount, reference_type, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.AccountID, e.Type, e.Method, e.Amount, e.ReferenceType, e.ReferenceID, e.Description, e.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create cash entry", err)
	}
	return nil
}

func (r *CashEntryRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.CashEntry, error) {
	query := `
		SELECT id, account_id, type, method, amount, reference_type, reference_id, description, created_at
		FROM cash_entries WHERE account_id = $1
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashEntry
	for rows.Next() {
		var e entity.CashEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Method, &e.Amount,
			&e.ReferenceType, &e.ReferenceID, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func (r *CashEntryRepo) BalanceByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'OUT' THEN -amount ELSE amount END), 0)
		FROM cash_entries WHERE account_id = $1`
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("cash balance: %w", err)
	}
	return balance, nil
}
