package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

var _ repository.CreditMovementRepository = (*CreditMovementRepo)(nil)

// CreditMovementRepo ledger de crédito de clientes sobre PostgreSQL.
type CreditMovementRepo struct {
	q Querier
}

// NewCreditMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditMovementRepository(q Querier) *CreditMovementRepo {
	return &CreditMovementRepo{q: q}
}

func (r *CreditMovementRepo) Create(ctx context.Context, m *entity.CreditMovement) error {
	query := `
		INSERT INTO credit_movements (id, client_id, type, amount, origin, note, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ClientID, m.Type, m.Amount, m.Origin, m.Note, m.ReferenceID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create credit movement", err)
	}
	return nil
}

func (r *CreditMovementRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.CreditMovement, error) {
	query := `
		SELECT id, client_id, type, amount, origin, note, reference_id, created_by, created_at
		FROM credit_movements WHERE client_id = $1
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list credit movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditMovement
	for rows.Next() {
		var m entity.CreditMovement
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Type, &m.Amount, &m.Origin, &m.Note,
			&m.ReferenceID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *CreditMovementRepo) BalanceByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'DEBIT' THEN -amount ELSE amount END), 0)
		FROM credit_movements WHERE client_id = $1`
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, clientID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

func (r *CreditMovementRepo) LockClient(ctx context.Context, clientID string) error {
	return advisoryLock(ctx, r.q, "credit:"+clientID)
}
