package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, ítems y pagos sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, customer_id, appointment_id, status, subtotal, discount, total, notes,
	created_by, created_at, updated_at, paid_at, refunded_at`

// Create inserta la venta con sus ítems.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sales (` + saleColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err := tx.Exec(ctx, query,
			sale.ID, sale.CustomerID, sale.AppointmentID, sale.Status, sale.Subtotal, sale.Discount, sale.Total,
			sale.Notes, sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt, sale.PaidAt, sale.RefundedAt,
		)
		if err != nil {
			return wrapWrite("create sale", err)
		}
		return insertItems(ctx, tx, sale.ID, sale.Items)
	})
}

// GetByID obtiene la venta con ítems y pagos. nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero con SELECT ... FOR UPDATE sobre la fila de la venta.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

func (r *SaleRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CustomerID, &s.AppointmentID, &s.Status, &s.Subtotal, &s.Discount, &s.Total, &s.Notes,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.PaidAt, &s.RefundedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	if s.Payments, err = r.payments(ctx, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, item_type, product_id, service_id, name, qty, unit_price, total_price
		FROM sale_items WHERE sale_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.ItemType, &it.ProductID, &it.ServiceID, &it.Name,
			&it.Qty, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) payments(ctx context.Context, saleID string) ([]entity.SalePayment, error) {
	query := `
		SELECT id, sale_id, method, amount, cash_given, change_amount, created_at
		FROM sale_payments WHERE sale_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	var list []entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.CashGiven, &p.Change, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateDraft reemplaza cabecera editable e ítems solo si la venta sigue en borrador.
func (r *SaleRepo) UpdateDraft(ctx context.Context, sale *entity.Sale) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			UPDATE sales SET customer_id = $2, appointment_id = $3, subtotal = $4, discount = $5,
				total = $6, notes = $7, updated_at = $8
			WHERE id = $1 AND status = 'draft'`
		tag, err := tx.Exec(ctx, query,
			sale.ID, sale.CustomerID, sale.AppointmentID, sale.Subtotal, sale.Discount, sale.Total, sale.Notes, sale.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return missingOr(ctx, tx, sale.ID, domain.ErrSaleNotEditable)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
			return fmt.Errorf("delete sale items: %w", err)
		}
		return insertItems(ctx, tx, sale.ID, sale.Items)
	})
}

// CreatePayments inserta los pagos en el orden recibido.
func (r *SaleRepo) CreatePayments(ctx context.Context, saleID string, payments []entity.SalePayment) error {
	if len(payments) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sale_payments (id, sale_id, position, method, amount, cash_given, change_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		batch := &pgx.Batch{}
		for i, p := range payments {
			batch.Queue(query, p.ID, saleID, i, p.Method, p.Amount, p.CashGiven, p.Change, p.CreatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wrapWrite("create sale payments", err)
		}
		return nil
	})
}

// UpdateStatus transición condicional: solo aplica si el estado actual es from.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	query := `
		UPDATE sales SET status = $3::text, updated_at = $4,
			paid_at = CASE WHEN $3::text = 'paid' THEN $4 ELSE paid_at END,
			refunded_at = CASE WHEN $3::text = 'refunded' THEN $4 ELSE refunded_at END
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOr(ctx, r.q, id, fmt.Errorf("%w: la venta %s no está en estado %s", domain.ErrConflict, id, from))
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, saleID string, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO sale_items (id, sale_id, position, item_type, product_id, service_id, name, qty, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(query, it.ID, saleID, i, it.ItemType, it.ProductID, it.ServiceID, it.Name,
			it.Qty, it.UnitPrice, it.TotalPrice)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapWrite("create sale items", err)
	}
	return nil
}

// missingOr devuelve ErrSaleNotFound si la venta no existe; si existe, err.
func missingOr(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, id string, err error) error {
	var exists bool
	if qerr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists); qerr != nil {
		return fmt.Errorf("check sale: %w", qerr)
	}
	if !exists {
		return domain.ErrSaleNotFound
	}
	return err
}
