package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de stock sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento (la tabla no admite UPDATE ni DELETE desde la aplicación).
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, reason, reference_type, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Reason,
		m.ReferenceType, m.ReferenceID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create stock movement", err)
	}
	return nil
}

// ListByProduct lista los movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, reason, reference_type, reference_id, created_by, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason,
			&m.ReferenceType, &m.ReferenceID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct pliega Σ IN − Σ OUT en la base.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)::BIGINT
		FROM stock_movements WHERE product_id = $1`
	var level int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&level); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return level, nil
}

// LockProduct serializa escritores del producto hasta el fin de la transacción.
func (r *StockMovementRepo) LockProduct(ctx context.Context, productID string) error {
	return advisoryLock(ctx, r.q, "stock:"+productID)
}
